package wrapped

import (
	"math"

	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
)

// Filter narrows a harvested collection before a fresh Analyze pass, so
// the view can be re-sliced without re-scraping.
type Filter struct {
	// Inclusive word-count range. A work with no known word count
	// filters as zero words.
	MinWords int
	MaxWords int
	// Ratings to keep. A work with no known rating filters as
	// RatingUnknown.
	Ratings map[archive.Rating]bool
}

// DefaultFilter keeps every record.
func DefaultFilter() Filter {
	ratings := map[archive.Rating]bool{archive.RatingUnknown: true}
	for _, r := range archive.AllRatings {
		ratings[r] = true
	}
	return Filter{
		MinWords: 0,
		MaxWords: math.MaxInt,
		Ratings:  ratings,
	}
}

func (f Filter) keeps(w archive.WorkRecord) bool {
	if w.WordCount < f.MinWords || w.WordCount > f.MaxWords {
		return false
	}
	return f.Ratings[w.Rating]
}

// Apply returns the records passing the filter as a new slice. The input
// is never mutated and records are not copied deeply, the result is a
// read-only view over the same frozen collection.
func Apply(works []archive.WorkRecord, f Filter) []archive.WorkRecord {
	out := make([]archive.WorkRecord, 0, len(works))
	for _, w := range works {
		if f.keeps(w) {
			out = append(out, w)
		}
	}
	return out
}
