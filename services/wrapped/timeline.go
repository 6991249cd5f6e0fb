package wrapped

import (
	"sort"
	"time"

	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
)

type MonthActivity struct {
	// Month is a "2006-01" key.
	Month string
	Count int
	Words int
}

type TimelineStats struct {
	Months []MonthActivity
	// BusiestMonth is the month with the largest summed word count, not
	// the most visits.
	BusiestMonth string
	DistinctDays int
	// LongestStreak is the longest run of consecutive calendar days
	// with at least one recorded visit.
	LongestStreak int
}

// buildTimeline buckets works by their last-visited date. Records whose
// date is missing or unparseable are excluded here and only here, they
// still count in every non-date aggregate.
func buildTimeline(works []archive.WorkRecord) TimelineStats {
	byMonth := map[string]*MonthActivity{}
	days := map[time.Time]bool{}

	for _, w := range works {
		visited, ok := archive.ParseDate(w.LastVisited)
		if !ok {
			continue
		}

		month := visited.Format("2006-01")
		entry := byMonth[month]
		if entry == nil {
			entry = &MonthActivity{Month: month}
			byMonth[month] = entry
		}
		entry.Count++
		entry.Words += w.WordCount

		days[time.Date(visited.Year(), visited.Month(), visited.Day(), 0, 0, 0, 0, time.UTC)] = true
	}

	t := TimelineStats{DistinctDays: len(days)}

	for _, entry := range byMonth {
		t.Months = append(t.Months, *entry)
	}
	sort.Slice(t.Months, func(i, j int) bool {
		return t.Months[i].Month < t.Months[j].Month
	})

	bestWords := 0
	for _, m := range t.Months {
		if m.Words > bestWords {
			bestWords = m.Words
			t.BusiestMonth = m.Month
		}
	}

	t.LongestStreak = longestStreak(days)
	return t
}

func longestStreak(days map[time.Time]bool) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
