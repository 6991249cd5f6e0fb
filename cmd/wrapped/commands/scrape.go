package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/FYIFriday/Smut-Wrapped/lib/configutil"
	"github.com/FYIFriday/Smut-Wrapped/lib/scrapers/archive"
	"github.com/FYIFriday/Smut-Wrapped/lib/serviceutil"
	"github.com/FYIFriday/Smut-Wrapped/services/wrapped"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"
)

type Config struct {
	Username string `json:"username"`
	// SessionCookie is the "_otwarchive_session" cookie of a logged-in
	// browser session, the reading history is not public. Keep it in
	// config.local.json5.
	SessionCookie string `json:"session_cookie"`
	BaseUrl       string `json:"base_url"`
}

var (
	scrapeSource    *string
	scrapeTimeRange *string
	scrapePageLimit *int
	scrapeMinWords  *int
	scrapeMaxWords  *int
	scrapeRatings   *[]string
)

func init() {
	scrapeSource = scrapeCmd.Flags().String("source", "both", "Listing source to harvest: history, bookmarks or both.")
	scrapeTimeRange = scrapeCmd.Flags().String("time-range", "all", "Window to harvest: all, last-year or page-limited.")
	scrapePageLimit = scrapeCmd.Flags().Int("page-limit", 0, "Listing pages per source when --time-range=page-limited.")
	scrapeMinWords = scrapeCmd.Flags().Int("min-words", 0, "Drop works below this word count before analyzing.")
	scrapeMaxWords = scrapeCmd.Flags().Int("max-words", 0, "Drop works above this word count before analyzing (0 = no cap).")
	scrapeRatings = scrapeCmd.Flags().StringArray("rating", nil, "Keep only these ratings (repeatable): explicit, mature, teen, general, not-rated.")
	rootCmd.AddCommand(scrapeCmd)
}

func parseSource(s string) (archive.Source, error) {
	switch s {
	case "history":
		return archive.SourceHistory, nil
	case "bookmarks":
		return archive.SourceBookmarks, nil
	case "both":
		return archive.SourceBoth, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

func parseTimeRange(s string) (archive.TimeRange, error) {
	switch s {
	case "all":
		return archive.TimeRangeAll, nil
	case "last-year":
		return archive.TimeRangeLastYear, nil
	case "page-limited":
		return archive.TimeRangePageLimited, nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

var ratingNames = map[string]archive.Rating{
	"explicit":  archive.RatingExplicit,
	"mature":    archive.RatingMature,
	"teen":      archive.RatingTeen,
	"general":   archive.RatingGeneral,
	"not-rated": archive.RatingNotRated,
}

func parseFilter() (wrapped.Filter, error) {
	filter := wrapped.DefaultFilter()
	filter.MinWords = *scrapeMinWords
	if *scrapeMaxWords > 0 {
		filter.MaxWords = *scrapeMaxWords
	} else {
		filter.MaxWords = math.MaxInt
	}

	if len(*scrapeRatings) > 0 {
		filter.Ratings = map[archive.Rating]bool{}
		for _, name := range *scrapeRatings {
			r, ok := ratingNames[strings.ToLower(name)]
			if !ok {
				return filter, fmt.Errorf("unknown rating %q", name)
			}
			filter.Ratings[r] = true
		}
	}
	return filter, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Harvests your reading history and bookmarks and prints your wrapped stats.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config.json5", err)
		}
		if cfg.Username == "" {
			serviceutil.Fatal("config is missing a username", os.ErrInvalid)
		}

		source, err := parseSource(*scrapeSource)
		if err != nil {
			serviceutil.Fatal("bad --source", err)
		}
		timeRange, err := parseTimeRange(*scrapeTimeRange)
		if err != nil {
			serviceutil.Fatal("bad --time-range", err)
		}
		filter, err := parseFilter()
		if err != nil {
			serviceutil.Fatal("bad --rating", err)
		}

		client, err := archive.NewClient(archive.ClientOptions{
			BaseUrl:       cfg.BaseUrl,
			SessionCookie: cfg.SessionCookie,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize archive client", err)
		}

		slog.Info("harvesting", "username", cfg.Username, "source", *scrapeSource)

		pw := progress.NewWriter()
		pw.SetOutputWriter(os.Stderr)
		pw.SetAutoStop(false)
		tracker := &progress.Tracker{Message: "Starting harvest", Total: 100}
		pw.AppendTracker(tracker)
		go pw.Render()

		onProgress := func(p archive.Progress) {
			message := p.Message
			if p.Detail != "" {
				message = fmt.Sprintf("%s: %s", p.Message, p.Detail)
			}
			tracker.UpdateMessage(message)
			tracker.SetValue(int64(p.Percent))
		}

		harvester := archive.NewHarvester(client)
		result, err := harvester.ScrapeAll(cmd.Context(), cfg.Username, onProgress, archive.Options{
			Source:    source,
			TimeRange: timeRange,
			PageLimit: *scrapePageLimit,
		})

		tracker.MarkAsDone()
		pw.Stop()
		for pw.IsRenderInProgress() {
			time.Sleep(time.Millisecond * 50)
		}

		if errors.Is(err, context.Canceled) {
			fmt.Println("Harvest cancelled. Nothing was kept.")
			return
		}
		if err != nil {
			serviceutil.Fatal("harvest failed", err)
		}
		if result.FailedDetails > 0 {
			fmt.Printf("Note: %d works could not be enriched (deleted or private), their listing info still counts.\n", result.FailedDetails)
		}
		if len(result.Works) == 0 {
			fmt.Println("No works found. Is the reading history enabled for this account?")
			return
		}

		works := wrapped.Apply(result.Works, filter)
		if len(works) == 0 {
			fmt.Printf("All %d harvested works were excluded by the word-count/rating filters. Try relaxing them.\n", len(result.Works))
			return
		}

		renderStats(wrapped.Analyze(works))
	},
}
