package commands

import (
	"fmt"
	"os"

	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
	"github.com/FYIFriday/Smut-Wrapped/services/wrapped"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

func workLabel(w *archive.WorkRecord) string {
	if w == nil {
		return "-"
	}
	authors := "Anonymous"
	if len(w.Authors) > 0 {
		authors = w.Authors[0]
	}
	return fmt.Sprintf("%s by %s", w.Title, authors)
}

func renderRanking(title string, counts []wrapped.TagCount) {
	if len(counts) == 0 {
		return
	}
	t := newTable(title)
	t.AppendHeader(table.Row{"#", "Name", "Count"})
	for i, tc := range counts {
		t.AppendRow(table.Row{i + 1, tc.Name, tc.Count})
	}
	t.Render()
}

func renderStats(s wrapped.Statistics) {
	if s.IsEmpty {
		fmt.Println("Nothing to report.")
		return
	}

	t := newTable("Your Year, Wrapped")
	t.AppendRow(table.Row{"Works read", s.TotalWorks})
	t.AppendRow(table.Row{"Words read", s.TotalWords})
	t.AppendRow(table.Row{"Novel equivalents", s.NovelEquivalents})
	t.AppendRow(table.Row{"Average words per work", s.AverageWords})
	t.AppendRow(table.Row{"Total visits", s.TotalVisits})
	t.AppendRow(table.Row{"Reading time", fmt.Sprintf("%d min (%.1f h, %.1f days)",
		s.ReadingTime.Minutes, s.ReadingTime.Hours, s.ReadingTime.Days)})
	t.AppendRow(table.Row{"Distinct fandoms", s.DistinctFandoms})
	t.Render()

	renderRanking("Top Fandoms", s.TopFandoms)
	renderRanking("Top Ships", s.TopShips)
	renderRanking("Top Characters", s.TopCharacters)
	renderRanking("Top Tags", s.TopFreeformTags)
	renderRanking("Top Authors", s.TopAuthors)
	renderRanking("Content Warnings", s.TopWarnings)

	t = newTable("Ratings")
	t.AppendHeader(table.Row{"Rating", "Count", "%"})
	for _, rc := range s.Ratings {
		name := string(rc.Rating)
		if rc.Rating == archive.RatingUnknown {
			name = "Unknown"
		}
		t.AppendRow(table.Row{name, rc.Count, fmt.Sprintf("%.0f", rc.Percent)})
	}
	t.AppendFooter(table.Row{"Favorite", string(s.FavoriteRating), fmt.Sprintf("explicit: %.0f%%", s.ExplicitPercent)})
	t.Render()

	t = newTable("Completion")
	t.AppendHeader(table.Row{"State", "Count", "%"})
	t.AppendRow(table.Row{"Complete", s.CompleteCount, fmt.Sprintf("%.0f", s.CompletePercent)})
	t.AppendRow(table.Row{"In progress", s.InProgressCount, fmt.Sprintf("%.0f", s.InProgressPercent)})
	t.AppendRow(table.Row{"Unknown", s.UnknownCompletionCount, fmt.Sprintf("%.0f", s.UnknownCompletionPercent)})
	t.Render()

	t = newTable("Length")
	t.AppendHeader(table.Row{"Band", "Count", "%"})
	for _, b := range s.LengthBuckets {
		t.AppendRow(table.Row{b.Label, b.Count, fmt.Sprintf("%.0f", b.Percent)})
	}
	t.AppendFooter(table.Row{"Preferred", s.PreferredLength, ""})
	t.Render()

	t = newTable("Superlatives")
	t.AppendRow(table.Row{"Longest", workLabel(s.Longest)})
	t.AppendRow(table.Row{"Most revisited", workLabel(s.MostRevisited)})
	t.AppendRow(table.Row{"Most kudos", workLabel(s.MostKudos)})
	t.AppendRow(table.Row{"Hidden gem", workLabel(s.HiddenGem)})
	t.AppendRow(table.Row{"Secret favorite", workLabel(s.SecretFavorite)})
	if ship := s.RarestShip(); ship != "" {
		t.AppendRow(table.Row{"Rarest ship", ship})
	}
	if s.TopTrope != "" {
		t.AppendRow(table.Row{"Top trope", s.TopTrope})
	}
	t.Render()

	if len(s.RareShips) > 1 {
		t = newTable("Rare Ships (seen exactly once)")
		for _, ship := range s.RareShips {
			t.AppendRow(table.Row{ship})
		}
		t.Render()
	}

	t = newTable("Mood")
	t.AppendRow(table.Row{"Fluff", fmt.Sprintf("%d (%.0f%%)", s.Moods.FluffCount, s.Moods.FluffPercent)})
	t.AppendRow(table.Row{"Angst", fmt.Sprintf("%d (%.0f%%)", s.Moods.AngstCount, s.Moods.AngstPercent)})
	t.AppendRow(table.Row{"Preference", s.Moods.Preference})
	t.Render()

	if len(s.Timeline.Months) > 0 {
		t = newTable("Timeline")
		t.AppendHeader(table.Row{"Month", "Works", "Words"})
		for _, m := range s.Timeline.Months {
			t.AppendRow(table.Row{m.Month, m.Count, m.Words})
		}
		t.AppendFooter(table.Row{
			fmt.Sprintf("busiest: %s", s.Timeline.BusiestMonth),
			fmt.Sprintf("%d days", s.Timeline.DistinctDays),
			fmt.Sprintf("streak: %d", s.Timeline.LongestStreak),
		})
		t.Render()
	}

	fmt.Printf("\n%s: %s\n", s.SizeProfile.Label, s.SizeProfile.Description)
	fmt.Printf("%s (%.0f%% bookmarked): %s\n", s.Personality.Label, 100*s.Personality.Ratio, s.Personality.Message)
}
