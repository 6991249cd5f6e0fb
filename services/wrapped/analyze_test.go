package wrapped

import (
	"fmt"
	"testing"

	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func work(id string, mutate func(*archive.WorkRecord)) archive.WorkRecord {
	w := archive.WorkRecord{
		ID:         id,
		Title:      fmt.Sprintf("Work %s", id),
		Authors:    []string{fmt.Sprintf("author-%s", id)},
		VisitCount: 1,
	}
	if mutate != nil {
		mutate(&w)
	}
	return w
}

func TestAnalyzeEmpty(t *testing.T) {
	s := Analyze(nil)
	require.True(t, s.IsEmpty)
	require.Equal(t, 0, s.TotalWorks)
}

func TestAnalyzeBasicAggregate(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.WordCount = 1000; w.Rating = archive.RatingGeneral }),
		work("2", func(w *archive.WorkRecord) { w.WordCount = 2000; w.Rating = archive.RatingGeneral }),
		work("3", func(w *archive.WorkRecord) { w.WordCount = 3000; w.Rating = archive.RatingExplicit }),
	}

	s := Analyze(works)

	require.False(t, s.IsEmpty)
	require.Equal(t, 3, s.TotalWorks)
	require.Equal(t, 6000, s.TotalWords)
	require.Equal(t, 2000, s.AverageWords)
	require.Equal(t, 3, s.TotalVisits)

	byRating := map[archive.Rating]RatingCount{}
	for _, rc := range s.Ratings {
		byRating[rc.Rating] = rc
	}
	require.Equal(t, 2, byRating[archive.RatingGeneral].Count)
	require.InDelta(t, 66.6, byRating[archive.RatingGeneral].Percent, 1)
	require.Equal(t, 1, byRating[archive.RatingExplicit].Count)
	require.InDelta(t, 33.3, byRating[archive.RatingExplicit].Percent, 1)
	require.InDelta(t, 33.3, s.ExplicitPercent, 1)
	require.Equal(t, archive.RatingGeneral, s.FavoriteRating)
}

func TestAnalyzeDeterministic(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) {
			w.WordCount = 52000
			w.Rating = archive.RatingMature
			w.Fandoms = []string{"A Fandom", "B Fandom"}
			w.Relationships = []string{"X/Y"}
			w.FreeformTags = []string{"Fluff", "Slow Burn"}
			w.LastVisited = "08 Jan 2022"
		}),
		work("2", func(w *archive.WorkRecord) {
			w.WordCount = 800
			w.Rating = archive.RatingTeen
			w.Fandoms = []string{"A Fandom"}
			w.Relationships = []string{"P/Q"}
			w.FreeformTags = []string{"Angst"}
			w.LastVisited = "09 Jan 2022"
		}),
	}

	first := Analyze(works)
	second := Analyze(works)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
}

func TestRatingAndLengthPercentsSumTo100(t *testing.T) {
	var works []archive.WorkRecord
	wordCounts := []int{500, 1500, 7000, 30000, 60000, 150000, 2200}
	ratings := []archive.Rating{
		archive.RatingExplicit, archive.RatingMature, archive.RatingTeen,
		archive.RatingGeneral, archive.RatingNotRated, archive.RatingUnknown,
		archive.RatingExplicit,
	}
	for i := range wordCounts {
		i := i
		works = append(works, work(fmt.Sprintf("%d", i), func(w *archive.WorkRecord) {
			w.WordCount = wordCounts[i]
			w.Rating = ratings[i]
		}))
	}

	s := Analyze(works)

	ratingSum := 0.0
	for _, rc := range s.Ratings {
		ratingSum += rc.Percent
	}
	require.InDelta(t, 100, ratingSum, 1)

	lengthSum := 0.0
	for _, b := range s.LengthBuckets {
		lengthSum += b.Percent
	}
	require.InDelta(t, 100, lengthSum, 1)
}

func TestHiddenGem(t *testing.T) {
	works := []archive.WorkRecord{
		work("popular", func(w *archive.WorkRecord) { w.Kudos = 5000; w.VisitCount = 3 }),
		work("gem", func(w *archive.WorkRecord) { w.Kudos = 50; w.VisitCount = 5 }),
		work("alsopopular", func(w *archive.WorkRecord) { w.Kudos = 100; w.VisitCount = 9 }),
	}

	s := Analyze(works)
	require.NotNil(t, s.HiddenGem)
	require.Equal(t, "gem", s.HiddenGem.ID)
}

func TestHiddenGemAbsent(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.Kudos = 100; w.VisitCount = 5 }),
		work("2", func(w *archive.WorkRecord) { w.Kudos = 900; w.VisitCount = 7 }),
		// low kudos but never revisited
		work("3", func(w *archive.WorkRecord) { w.Kudos = 3; w.VisitCount = 1 }),
	}

	s := Analyze(works)
	require.Nil(t, s.HiddenGem)
}

func TestSecretFavorite(t *testing.T) {
	works := []archive.WorkRecord{
		work("bookmarked", func(w *archive.WorkRecord) { w.VisitCount = 9; w.IsBookmark = true }),
		work("secret", func(w *archive.WorkRecord) { w.VisitCount = 6 }),
		work("once", func(w *archive.WorkRecord) { w.VisitCount = 1 }),
	}

	s := Analyze(works)
	require.NotNil(t, s.SecretFavorite)
	require.Equal(t, "secret", s.SecretFavorite.ID)
}

func TestRareShips(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.Relationships = []string{"A/B"} }),
		work("2", func(w *archive.WorkRecord) { w.Relationships = []string{"A/B", "C/D"} }),
		work("3", func(w *archive.WorkRecord) { w.Relationships = []string{"A/B", "E/F"} }),
	}

	s := Analyze(works)
	require.Equal(t, []string{"C/D", "E/F"}, s.RareShips)
	require.Equal(t, "C/D", s.RarestShip())
}

func TestRareShipsCapped(t *testing.T) {
	var works []archive.WorkRecord
	for i := 0; i < 8; i++ {
		i := i
		works = append(works, work(fmt.Sprintf("%d", i), func(w *archive.WorkRecord) {
			w.Relationships = []string{fmt.Sprintf("Ship %d/Other %d", i, i)}
		}))
	}

	s := Analyze(works)
	require.Len(t, s.RareShips, 5)
	require.Equal(t, "Ship 0/Other 0", s.RareShips[0])
}

func TestSuperlatives(t *testing.T) {
	works := []archive.WorkRecord{
		work("short", func(w *archive.WorkRecord) { w.WordCount = 900; w.Kudos = 10; w.VisitCount = 2 }),
		work("long", func(w *archive.WorkRecord) { w.WordCount = 250000; w.Kudos = 400; w.VisitCount = 1 }),
		work("loved", func(w *archive.WorkRecord) { w.WordCount = 5000; w.Kudos = 9000; w.VisitCount = 12 }),
	}

	s := Analyze(works)
	require.Equal(t, "long", s.Longest.ID)
	require.Equal(t, "loved", s.MostKudos.ID)
	require.Equal(t, "loved", s.MostRevisited.ID)
}

func TestMoodBreakdown(t *testing.T) {
	works := []archive.WorkRecord{
		work("f1", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Tooth-Rotting Fluff"} }),
		work("f2", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Domestic Bliss"} }),
		work("a1", func(w *archive.WorkRecord) { w.FreeformTags = []string{"ANGST"} }),
		work("none", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Coffee Shops"} }),
	}

	s := Analyze(works)
	require.Equal(t, 2, s.Moods.FluffCount)
	require.Equal(t, 1, s.Moods.AngstCount)
	// percentages normalize over the mood-tagged subset, not all works
	require.InDelta(t, 66.6, s.Moods.FluffPercent, 1)
	require.InDelta(t, 33.3, s.Moods.AngstPercent, 1)
	require.Equal(t, "Fluff", s.Moods.Preference)
}

func TestMoodBalanced(t *testing.T) {
	works := []archive.WorkRecord{
		work("f", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Fluff"} }),
		work("a", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Angst"} }),
	}
	require.Equal(t, "Balanced", Analyze(works).Moods.Preference)
}

func TestLengthHistogram(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.WordCount = 500 }),
		work("2", func(w *archive.WorkRecord) { w.WordCount = 3000 }),
		work("3", func(w *archive.WorkRecord) { w.WordCount = 4000 }),
		work("4", func(w *archive.WorkRecord) { w.WordCount = 120000 }),
	}

	s := Analyze(works)
	require.Equal(t, "1K-5K", s.PreferredLength)

	byLabel := map[string]int{}
	for _, b := range s.LengthBuckets {
		byLabel[b.Label] = b.Count
	}
	require.Equal(t, 1, byLabel["Under 1K"])
	require.Equal(t, 2, byLabel["1K-5K"])
	require.Equal(t, 1, byLabel["100K+"])
}

func TestNovelEquivalents(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.WordCount = 180000 }),
		work("2", func(w *archive.WorkRecord) { w.WordCount = 45000 }),
	}
	// 225000 / 90000 = 2.5 rounds to 3 novels
	require.Equal(t, 3, Analyze(works).NovelEquivalents)
}

func TestReadingTime(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.WordCount = 250 * 60 * 24 }),
	}
	rt := Analyze(works).ReadingTime
	require.Equal(t, 60*24, rt.Minutes)
	require.InDelta(t, 24, rt.Hours, 0.01)
	require.InDelta(t, 1, rt.Days, 0.01)
}

func TestTopTropeSkipsShipsAndCategories(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) {
			w.FreeformTags = []string{"Mara/Iris", "Slow Burn", "M/M"}
		}),
		work("2", func(w *archive.WorkRecord) {
			w.FreeformTags = []string{"Mara/Iris", "Slow Burn", "Alternate Universe"}
		}),
		work("3", func(w *archive.WorkRecord) {
			w.FreeformTags = []string{"Mara/Iris"}
		}),
	}

	// "Mara/Iris" outranks "Slow Burn" but reads as relationship notation
	require.Equal(t, "Slow Burn", Analyze(works).TopTrope)
}

func TestTopTropeKeepsHurtComfort(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Hurt/Comfort"} }),
		work("2", func(w *archive.WorkRecord) { w.FreeformTags = []string{"Hurt/Comfort"} }),
	}
	require.Equal(t, "Hurt/Comfort", Analyze(works).TopTrope)
}

func TestCompletionBreakdown(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.Completion = archive.CompletionComplete }),
		work("2", func(w *archive.WorkRecord) { w.Completion = archive.CompletionComplete }),
		work("3", func(w *archive.WorkRecord) { w.Completion = archive.CompletionInProgress }),
		work("4", nil),
	}

	s := Analyze(works)
	require.Equal(t, 2, s.CompleteCount)
	require.Equal(t, 1, s.InProgressCount)
	require.Equal(t, 1, s.UnknownCompletionCount)
	require.InDelta(t, 50, s.CompletePercent, 0.01)
}

func TestTopAuthorsTreatsEmptyAsAnonymous(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.Authors = nil }),
		work("2", func(w *archive.WorkRecord) { w.Authors = nil }),
		work("3", func(w *archive.WorkRecord) { w.Authors = []string{"quillfire"} }),
	}

	s := Analyze(works)
	require.Equal(t, "Anonymous", s.TopAuthors[0].Name)
	require.Equal(t, 2, s.TopAuthors[0].Count)
}

func TestFreeformStopwordsExcluded(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.FreeformTags = []string{"…", "Slow Burn"} }),
		work("2", func(w *archive.WorkRecord) { w.FreeformTags = []string{"...", "Slow Burn"} }),
	}

	s := Analyze(works)
	require.Equal(t, "Slow Burn", s.TopFreeformTags[0].Name)
	for _, tc := range s.TopFreeformTags {
		require.NotEqual(t, "…", tc.Name)
		require.NotEqual(t, "...", tc.Name)
	}
}

func TestRankingTieBreakIsFirstSeen(t *testing.T) {
	works := []archive.WorkRecord{
		work("1", func(w *archive.WorkRecord) { w.Fandoms = []string{"First Seen", "Second Seen"} }),
		work("2", func(w *archive.WorkRecord) { w.Fandoms = []string{"Second Seen", "First Seen"} }),
	}

	s := Analyze(works)
	require.Equal(t, "First Seen", s.TopFandoms[0].Name)
	require.Equal(t, 2, s.DistinctFandoms)
}

func TestPersonalityBands(t *testing.T) {
	cases := []struct {
		bookmarked int
		total      int
		label      string
	}{
		{0, 20, "The Ghost"},
		{2, 20, "The Minimalist"},
		{6, 20, "The Curator"},
		{12, 20, "The Archivist"},
		{19, 20, "The Completionist"},
	}

	for _, test := range cases {
		var works []archive.WorkRecord
		for i := 0; i < test.total; i++ {
			i := i
			works = append(works, work(fmt.Sprintf("%d", i), func(w *archive.WorkRecord) {
				w.IsBookmark = i < test.bookmarked
			}))
		}
		require.Equal(t, test.label, Analyze(works).Personality.Label,
			"%d of %d bookmarked", test.bookmarked, test.total)
	}
}

func TestSizeProfiles(t *testing.T) {
	cases := []struct {
		avgWords int
		label    string
	}{
		{1000, "Snacker"},
		{9000, "Short Story Regular"},
		{30000, "Novella Devotee"},
		{60000, "Novel Reader"},
		{200000, "Epic Completionist"},
	}
	for _, test := range cases {
		works := []archive.WorkRecord{
			work("1", func(w *archive.WorkRecord) { w.WordCount = test.avgWords }),
		}
		require.Equal(t, test.label, Analyze(works).SizeProfile.Label, "avg %d", test.avgWords)
	}
}
