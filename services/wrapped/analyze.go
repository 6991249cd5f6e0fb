package wrapped

import (
	"math"
	"sort"
	"strings"

	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
	"github.com/FYIFriday/Smut-Wrapped/lib/textutil"
)

const (
	// one novel, as the publishing industry counts them
	novelWords = 90_000
	// casual reading speed, words per minute
	readingWPM = 250

	hiddenGemKudosBelow = 100
	revisitThreshold    = 2

	defaultTopN  = 10
	freeformTopN = 30
	rareShipsMax = 5
)

type TagCount struct {
	Name  string
	Count int
}

type RatingCount struct {
	Rating  archive.Rating
	Count   int
	Percent float64
}

type BucketCount struct {
	Label   string
	Count   int
	Percent float64
}

type MoodStats struct {
	FluffCount   int
	AngstCount   int
	FluffPercent float64
	AngstPercent float64
	// Preference is "Fluff", "Angst" or "Balanced".
	Preference string
}

type SizeProfile struct {
	Label       string
	Description string
}

type ReadingTime struct {
	Minutes int
	Hours   float64
	Days    float64
}

type Personality struct {
	Label   string
	Message string
	// Ratio of bookmarked works to total works.
	Ratio float64
}

// Statistics is the full wrapped report, fully recomputable from the
// record collection and never mutated after Analyze returns.
type Statistics struct {
	IsEmpty    bool
	TotalWorks int

	TotalWords       int
	NovelEquivalents int
	AverageWords     int
	TotalVisits      int

	TopFandoms      []TagCount
	DistinctFandoms int
	TopShips        []TagCount
	TopCharacters   []TagCount
	TopFreeformTags []TagCount
	TopAuthors      []TagCount
	TopWarnings     []TagCount

	Ratings         []RatingCount
	FavoriteRating  archive.Rating
	ExplicitPercent float64

	CompleteCount            int
	InProgressCount          int
	UnknownCompletionCount   int
	CompletePercent          float64
	InProgressPercent        float64
	UnknownCompletionPercent float64

	Longest        *archive.WorkRecord
	MostRevisited  *archive.WorkRecord
	MostKudos      *archive.WorkRecord
	HiddenGem      *archive.WorkRecord
	SecretFavorite *archive.WorkRecord

	// RareShips lists relationship tags that appear exactly once in the
	// collection, first-seen order, capped at rareShipsMax.
	RareShips []string

	Moods MoodStats

	LengthBuckets   []BucketCount
	PreferredLength string

	Timeline TimelineStats

	SizeProfile SizeProfile
	ReadingTime ReadingTime
	TopTrope    string
	Personality Personality
}

// RarestShip is the single-value view over RareShips kept for callers
// that only display one pick. Tie-break is first encountered, the stats
// are deterministic for a fixed input order.
func (s *Statistics) RarestShip() string {
	if len(s.RareShips) == 0 {
		return ""
	}
	return s.RareShips[0]
}

// Analyze computes the full statistics object over a harvested record
// collection. It is pure: same input order in, identical report out.
// Ties in every "top entry" style pick go to the first record or tag
// encountered. Missing optional fields count as zero and never error.
func Analyze(works []archive.WorkRecord) Statistics {
	if len(works) == 0 {
		return Statistics{IsEmpty: true}
	}

	s := Statistics{TotalWorks: len(works)}

	for _, w := range works {
		s.TotalWords += w.WordCount
		s.TotalVisits += w.VisitCount
	}
	s.NovelEquivalents = int(math.Round(float64(s.TotalWords) / novelWords))
	s.AverageWords = s.TotalWords / len(works)

	fandoms := countTags(works, func(w archive.WorkRecord) []string { return w.Fandoms })
	s.DistinctFandoms = len(fandoms)
	s.TopFandoms = topN(fandoms, defaultTopN)
	s.TopShips = topN(countTags(works, func(w archive.WorkRecord) []string { return w.Relationships }), defaultTopN)
	s.TopCharacters = topN(countTags(works, func(w archive.WorkRecord) []string { return w.Characters }), defaultTopN)
	s.TopFreeformTags = topN(countFreeforms(works), freeformTopN)
	s.TopAuthors = topN(countTags(works, authorsOf), defaultTopN)
	s.TopWarnings = topN(countTags(works, func(w archive.WorkRecord) []string { return w.Warnings }), defaultTopN)

	s.Ratings, s.FavoriteRating, s.ExplicitPercent = ratingBreakdown(works)
	completionBreakdown(&s, works)
	superlatives(&s, works)
	s.RareShips = rareShips(works)
	s.Moods = moodBreakdown(works)
	s.LengthBuckets, s.PreferredLength = lengthHistogram(works)
	s.Timeline = buildTimeline(works)
	s.SizeProfile = sizeProfile(s.AverageWords)
	s.ReadingTime = readingTime(s.TotalWords)
	s.TopTrope = topTrope(works)
	s.Personality = personality(works)

	return s
}

func authorsOf(w archive.WorkRecord) []string {
	if len(w.Authors) == 0 {
		return []string{"Anonymous"}
	}
	return w.Authors
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// countTags tallies tag occurrences across the collection, remembering
// first-seen order so equal counts rank deterministically.
func countTags(works []archive.WorkRecord, tags func(archive.WorkRecord) []string) []TagCount {
	counts := map[string]int{}
	var order []string
	for _, w := range works {
		for _, tag := range tags(w) {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Name: tag, Count: counts[tag]})
	}
	// stable keeps first-seen order among equal counts
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func topN(counts []TagCount, n int) []TagCount {
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// freeformStopwords are scraping artifacts the listing markup sometimes
// leaks into the tag list, they are not tags anyone chose.
var freeformStopwords = []string{
	"…",
	"...",
	"show additional tags",
	"other additional tags to be added",
}

func isFreeformStopword(tag string) bool {
	lower := strings.ToLower(strings.TrimSpace(tag))
	for _, stop := range freeformStopwords {
		if lower == stop {
			return true
		}
	}
	return false
}

func countFreeforms(works []archive.WorkRecord) []TagCount {
	return countTags(works, func(w archive.WorkRecord) []string {
		var out []string
		for _, tag := range w.FreeformTags {
			if !isFreeformStopword(tag) {
				out = append(out, tag)
			}
		}
		return out
	})
}

func ratingBreakdown(works []archive.WorkRecord) ([]RatingCount, archive.Rating, float64) {
	counts := map[archive.Rating]int{}
	for _, w := range works {
		counts[w.Rating]++
	}

	out := make([]RatingCount, 0, len(archive.AllRatings)+1)
	favorite := archive.RatingUnknown
	best := 0
	for _, r := range archive.AllRatings {
		out = append(out, RatingCount{
			Rating:  r,
			Count:   counts[r],
			Percent: pct(counts[r], len(works)),
		})
		if counts[r] > best {
			best = counts[r]
			favorite = r
		}
	}
	if counts[archive.RatingUnknown] > 0 {
		out = append(out, RatingCount{
			Rating:  archive.RatingUnknown,
			Count:   counts[archive.RatingUnknown],
			Percent: pct(counts[archive.RatingUnknown], len(works)),
		})
	}

	return out, favorite, pct(counts[archive.RatingExplicit], len(works))
}

func completionBreakdown(s *Statistics, works []archive.WorkRecord) {
	for _, w := range works {
		switch w.Completion {
		case archive.CompletionComplete:
			s.CompleteCount++
		case archive.CompletionInProgress:
			s.InProgressCount++
		default:
			s.UnknownCompletionCount++
		}
	}
	s.CompletePercent = pct(s.CompleteCount, len(works))
	s.InProgressPercent = pct(s.InProgressCount, len(works))
	s.UnknownCompletionPercent = pct(s.UnknownCompletionCount, len(works))
}

// pick returns a copy of the best record under better, or nil when no
// record passes eligible. First encountered wins ties, better must be a
// strict improvement.
func pick(works []archive.WorkRecord, eligible func(archive.WorkRecord) bool, better func(candidate, best archive.WorkRecord) bool) *archive.WorkRecord {
	var best *archive.WorkRecord
	for _, w := range works {
		if !eligible(w) {
			continue
		}
		if best == nil || better(w, *best) {
			w := w
			best = &w
		}
	}
	return best
}

func superlatives(s *Statistics, works []archive.WorkRecord) {
	anyWork := func(archive.WorkRecord) bool { return true }

	s.Longest = pick(works, anyWork, func(c, b archive.WorkRecord) bool {
		return c.WordCount > b.WordCount
	})
	s.MostRevisited = pick(works, anyWork, func(c, b archive.WorkRecord) bool {
		return c.VisitCount > b.VisitCount
	})
	s.MostKudos = pick(works, anyWork, func(c, b archive.WorkRecord) bool {
		return c.Kudos > b.Kudos
	})
	s.HiddenGem = pick(works, func(w archive.WorkRecord) bool {
		return w.Kudos < hiddenGemKudosBelow && w.VisitCount >= revisitThreshold
	}, func(c, b archive.WorkRecord) bool {
		return c.VisitCount > b.VisitCount
	})
	s.SecretFavorite = pick(works, func(w archive.WorkRecord) bool {
		return !w.IsBookmark && w.VisitCount >= revisitThreshold
	}, func(c, b archive.WorkRecord) bool {
		return c.VisitCount > b.VisitCount
	})
}

func rareShips(works []archive.WorkRecord) []string {
	counts := countTags(works, func(w archive.WorkRecord) []string { return w.Relationships })

	// the stable sort in countTags keeps equal counts in first-seen
	// order, so this walk yields rare ships in encounter order
	var out []string
	for _, tc := range counts {
		if tc.Count != 1 {
			continue
		}
		out = append(out, tc.Name)
		if len(out) == rareShipsMax {
			break
		}
	}
	return out
}

var (
	fluffMatchers = []string{"fluff", "domestic", "cuddl", "happyending", "toothrotting"}
	angstMatchers = []string{"angst", "whump", "grief", "unhappyending", "heartbreak"}
)

func moodBreakdown(works []archive.WorkRecord) MoodStats {
	m := MoodStats{Preference: "Balanced"}
	for _, w := range works {
		if textutil.MatchAnyTag(w.FreeformTags, fluffMatchers) {
			m.FluffCount++
		}
		if textutil.MatchAnyTag(w.FreeformTags, angstMatchers) {
			m.AngstCount++
		}
	}

	tagged := m.FluffCount + m.AngstCount
	m.FluffPercent = pct(m.FluffCount, tagged)
	m.AngstPercent = pct(m.AngstCount, tagged)
	if m.FluffCount > m.AngstCount {
		m.Preference = "Fluff"
	} else if m.AngstCount > m.FluffCount {
		m.Preference = "Angst"
	}
	return m
}

var lengthBands = []struct {
	label string
	below int
}{
	{"Under 1K", 1_000},
	{"1K-5K", 5_000},
	{"5K-20K", 20_000},
	{"20K-50K", 50_000},
	{"50K-100K", 100_000},
	{"100K+", math.MaxInt},
}

func lengthHistogram(works []archive.WorkRecord) ([]BucketCount, string) {
	counts := make([]int, len(lengthBands))
	for _, w := range works {
		for i, band := range lengthBands {
			if w.WordCount < band.below {
				counts[i]++
				break
			}
		}
	}

	out := make([]BucketCount, len(lengthBands))
	preferred := lengthBands[0].label
	best := counts[0]
	for i, band := range lengthBands {
		out[i] = BucketCount{
			Label:   band.label,
			Count:   counts[i],
			Percent: pct(counts[i], len(works)),
		}
		if counts[i] > best {
			best = counts[i]
			preferred = band.label
		}
	}
	return out, preferred
}

var sizeProfiles = []struct {
	belowAvg    int
	label       string
	description string
}{
	{5_000, "Snacker", "You graze on quick one-shots between everything else."},
	{15_000, "Short Story Regular", "A tidy arc you can finish in one sitting is your comfort zone."},
	{40_000, "Novella Devotee", "Long enough to hurt, short enough to finish on a weekend."},
	{80_000, "Novel Reader", "You commit. Slow burns were invented for you."},
	{math.MaxInt, "Epic Completionist", "Word counts that frighten other readers are your home turf."},
}

func sizeProfile(averageWords int) SizeProfile {
	for _, p := range sizeProfiles {
		if averageWords < p.belowAvg {
			return SizeProfile{Label: p.label, Description: p.description}
		}
	}
	last := sizeProfiles[len(sizeProfiles)-1]
	return SizeProfile{Label: last.label, Description: last.description}
}

func readingTime(totalWords int) ReadingTime {
	minutes := totalWords / readingWPM
	return ReadingTime{
		Minutes: minutes,
		Hours:   float64(minutes) / 60,
		Days:    float64(minutes) / (60 * 24),
	}
}

// tropeCategories are normalized tags that describe what a work is
// rather than what happens in it, they never count as a trope.
var tropeCategories = map[string]bool{
	"explicit":                            true,
	"mature":                              true,
	"teenandupaudiences":                  true,
	"generalaudiences":                    true,
	"notrated":                            true,
	"m/m":                                 true,
	"f/f":                                 true,
	"f/m":                                 true,
	"gen":                                 true,
	"multi":                               true,
	"other":                               true,
	"noarchivewarningsapply":              true,
	"creatorchosenottousearchivewarnings": true,
	"alternateuniverse":                   true,
}

var comfortKeywords = []string{"hurt", "comfort"}

func tropeEligible(tag string) bool {
	norm := textutil.NormalizeTag(tag)
	if norm == "" || tropeCategories[norm] {
		return false
	}
	// relationship notation is a ship, not a trope, unless it is the
	// hurt/comfort family which happens to contain a slash
	if strings.ContainsAny(norm, "/&") && !textutil.MatchTag(tag, comfortKeywords) {
		return false
	}
	return true
}

func topTrope(works []archive.WorkRecord) string {
	counts := countFreeforms(works)
	for _, tc := range counts {
		if tropeEligible(tc.Name) {
			return tc.Name
		}
	}
	return ""
}

var personalityBands = []struct {
	belowRatio float64
	label      string
	message    string
}{
	{0.05, "The Ghost", "You read everything and admit to nothing. Your bookmarks page is a decoy."},
	{0.20, "The Minimalist", "A bookmark from you is a five-star review. Authors frame them."},
	{0.45, "The Curator", "You keep a careful shelf of the good stuff and you know where everything is."},
	{0.75, "The Archivist", "If it moved you, it got a bookmark. Your collection is a public service."},
	{math.Inf(1), "The Completionist", "You bookmark like you're backing up the archive personally."},
}

func personality(works []archive.WorkRecord) Personality {
	bookmarked := 0
	for _, w := range works {
		if w.IsBookmark {
			bookmarked++
		}
	}
	ratio := float64(bookmarked) / float64(len(works))

	for _, band := range personalityBands {
		if ratio < band.belowRatio {
			return Personality{Label: band.label, Message: band.message, Ratio: ratio}
		}
	}
	last := personalityBands[len(personalityBands)-1]
	return Personality{Label: last.label, Message: last.message, Ratio: ratio}
}
