package archive

// Source selects which listing index of a user's account to harvest.
type Source string

const (
	SourceHistory   Source = "history"
	SourceBookmarks Source = "bookmarks"
	SourceBoth      Source = "both"
)

// Rating is the archive's fixed audience rating enumeration.
type Rating string

const (
	RatingUnknown  Rating = ""
	RatingExplicit Rating = "Explicit"
	RatingMature   Rating = "Mature"
	RatingTeen     Rating = "Teen And Up Audiences"
	RatingGeneral  Rating = "General Audiences"
	RatingNotRated Rating = "Not Rated"
)

// AllRatings is the display order used by rating breakdowns and filters.
var AllRatings = []Rating{
	RatingExplicit,
	RatingMature,
	RatingTeen,
	RatingGeneral,
	RatingNotRated,
}

// Completion is derived from the detail page's chapter counter.
// A work whose detail page was never fetched stays CompletionUnknown.
type Completion int

const (
	CompletionUnknown Completion = iota
	CompletionComplete
	CompletionInProgress
)

// WorkRecord is one work the user read or bookmarked. Listing pages fill
// the identity, tag and visit fields; the detail page fills the rest.
// A zero value in any of the numeric fields means the source never
// provided one, downstream aggregation treats that as absent.
type WorkRecord struct {
	ID      string
	Title   string
	Authors []string

	Fandoms       []string
	Relationships []string
	Characters    []string
	FreeformTags  []string
	Warnings      []string

	Rating     Rating
	WordCount  int
	Kudos      int
	Bookmarks  int
	Hits       int
	Chapters   string
	Completion Completion

	DatePublished string
	DateUpdated   string

	// VisitCount is at least 1 for every harvested record. Bookmark rows
	// carry no visit counter on the archive, they default to 1.
	VisitCount  int
	LastVisited string
	IsBookmark  bool
}

// detailPatch carries the fields a work's own page adds on top of its
// listing row. It is merged into a base record with mergePatch, the base
// is never mutated.
type detailPatch struct {
	Rating        Rating
	Warnings      []string
	Fandoms       []string
	Relationships []string
	Characters    []string
	FreeformTags  []string
	WordCount     int
	Chapters      string
	Completion    Completion
	Kudos         int
	Bookmarks     int
	Hits          int
	DatePublished string
	DateUpdated   string
}

// mergePatch returns a copy of base enriched with the detail-page fields.
// Listing-derived identity and visit fields always survive, tag lists from
// the detail page replace the abbreviated listing ones when present.
func mergePatch(base WorkRecord, patch detailPatch) WorkRecord {
	out := base

	if patch.Rating != RatingUnknown {
		out.Rating = patch.Rating
	}
	if len(patch.Warnings) > 0 {
		out.Warnings = patch.Warnings
	}
	if len(patch.Fandoms) > 0 {
		out.Fandoms = patch.Fandoms
	}
	if len(patch.Relationships) > 0 {
		out.Relationships = patch.Relationships
	}
	if len(patch.Characters) > 0 {
		out.Characters = patch.Characters
	}
	if len(patch.FreeformTags) > 0 {
		out.FreeformTags = patch.FreeformTags
	}
	if patch.WordCount > 0 {
		out.WordCount = patch.WordCount
	}
	if patch.Chapters != "" {
		out.Chapters = patch.Chapters
		out.Completion = patch.Completion
	}
	if patch.Kudos > 0 {
		out.Kudos = patch.Kudos
	}
	if patch.Bookmarks > 0 {
		out.Bookmarks = patch.Bookmarks
	}
	if patch.Hits > 0 {
		out.Hits = patch.Hits
	}
	if patch.DatePublished != "" {
		out.DatePublished = patch.DatePublished
	}
	if patch.DateUpdated != "" {
		out.DateUpdated = patch.DateUpdated
	}

	return out
}
