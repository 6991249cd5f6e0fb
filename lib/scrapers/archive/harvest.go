package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// TimeRange narrows how much of a listing source gets harvested.
type TimeRange string

const (
	TimeRangeAll         TimeRange = "all"
	TimeRangeLastYear    TimeRange = "lastYear"
	TimeRangePageLimited TimeRange = "pageLimited"
)

type Options struct {
	Source    Source
	TimeRange TimeRange
	// PageLimit caps the listing pages fetched per source when TimeRange
	// is TimeRangePageLimited.
	PageLimit int
}

// Progress is a snapshot of the harvest for display. Percent never
// decreases within a run and reaches 100 only on final success.
type Progress struct {
	Phase   string
	Message string
	Detail  string
	Percent float64
}

// ProgressFunc receives every Progress snapshot, in order, on the
// harvesting goroutine. It must return quickly.
type ProgressFunc func(Progress)

// Result is a completed harvest. FailedDetails counts works whose detail
// page could not be fetched or parsed, those records keep their
// listing-derived fields and stay in Works.
type Result struct {
	Works         []WorkRecord
	FailedDetails int
}

// Harvester walks a user's history and bookmarks listings, merges them by
// work id and enriches each work from its detail page. All fetches run
// strictly sequentially through one Pacer, concurrency here would break
// the cadence the archive mandates.
type Harvester struct {
	fetcher Fetcher
	pacer   *Pacer
	now     func() time.Time
}

func NewHarvester(fetcher Fetcher) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		pacer:   NewPacer(),
		now:     time.Now,
	}
}

// ScrapeAll runs one full harvest for the given username. Cancelling ctx
// is observed before every fetch and surfaces as ctx.Err(), it is a
// distinct outcome from failure. A listing page that cannot be fetched
// or parsed aborts the run, a detail page that cannot is counted and
// skipped.
func (h *Harvester) ScrapeAll(ctx context.Context, username string, onProgress ProgressFunc, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "harvester:ScrapeAll")
	defer span.End()

	if onProgress == nil {
		onProgress = func(Progress) {}
	}
	emit := newProgressEmitter(onProgress)

	var history, bookmarks []WorkRecord
	var err error

	if opts.Source == SourceHistory || opts.Source == SourceBoth {
		history, err = h.harvestListing(ctx, username, SourceHistory, opts, emit, 0, 20)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "history listing failed")
			return Result{}, err
		}
	}
	if opts.Source == SourceBookmarks || opts.Source == SourceBoth {
		bookmarks, err = h.harvestListing(ctx, username, SourceBookmarks, opts, emit, 20, 35)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "bookmarks listing failed")
			return Result{}, err
		}
	}

	emit(Progress{Phase: "merging", Message: "Merging sources", Percent: 35})
	works := mergeSources(history, bookmarks)
	slog.InfoContext(ctx, "listing harvest done",
		"history", len(history), "bookmarks", len(bookmarks), "merged", len(works))

	failed, err := h.enrich(ctx, works, emit)
	if err != nil {
		return Result{}, err
	}

	emit(Progress{Phase: "done", Message: "Harvest complete", Percent: 100})
	return Result{Works: works, FailedDetails: failed}, nil
}

// newProgressEmitter clamps percent to be monotonically non-decreasing
// so phase hand-offs can't briefly walk backwards.
func newProgressEmitter(onProgress ProgressFunc) func(Progress) {
	high := 0.0
	return func(p Progress) {
		if p.Percent < high {
			p.Percent = high
		}
		high = p.Percent
		onProgress(p)
	}
}

func (h *Harvester) fetchDoc(ctx context.Context, link string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := h.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	html, err := h.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (h *Harvester) harvestListing(ctx context.Context, username string, source Source, opts Options, emit func(Progress), pctLow, pctHigh float64) ([]WorkRecord, error) {
	phase := fmt.Sprintf("listing:%s", source)

	doc, err := h.fetchDoc(ctx, ListingUrl(username, source, 1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("determine page bound for %s: %w", source, err)
	}

	bound := ParsePageBound(doc)
	if opts.TimeRange == TimeRangePageLimited && opts.PageLimit > 0 && opts.PageLimit < bound {
		bound = opts.PageLimit
	}
	slog.DebugContext(ctx, "listing page bound", "source", string(source), "pages", bound)

	rows := ParseListingRows(doc, source)
	emit(Progress{
		Phase:   phase,
		Message: fmt.Sprintf("Fetched %s page 1 of %d", source, bound),
		Percent: pctLow + (pctHigh-pctLow)/float64(bound),
	})

	for page := 2; page <= bound; page++ {
		doc, err := h.fetchDoc(ctx, ListingUrl(username, source, page))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("fetch %s page %d: %w", source, page, err)
		}
		rows = append(rows, ParseListingRows(doc, source)...)
		emit(Progress{
			Phase:   phase,
			Message: fmt.Sprintf("Fetched %s page %d of %d", source, page, bound),
			Percent: pctLow + (pctHigh-pctLow)*float64(page)/float64(bound),
		})
	}

	if opts.TimeRange == TimeRangeLastYear {
		rows = keepRecent(rows, h.now())
	}
	return rows, nil
}

// keepRecent drops rows last visited more than a year before now. Rows
// whose visit date is missing or unparseable are kept, unknown fails
// open rather than silently discarding reads.
func keepRecent(rows []WorkRecord, now time.Time) []WorkRecord {
	cutoff := now.AddDate(0, 0, -365)
	var out []WorkRecord
	for _, rec := range rows {
		visited, ok := ParseDate(rec.LastVisited)
		if ok && visited.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// mergeSources unifies the two listings by work id. A history row wins
// the base record, a bookmark row for the same work only contributes the
// bookmark flag. Output order is history order, then first-seen order of
// bookmark-only works.
func mergeSources(history, bookmarks []WorkRecord) []WorkRecord {
	out := make([]WorkRecord, 0, len(history)+len(bookmarks))
	index := make(map[string]int, len(history))

	for _, rec := range history {
		if at, ok := index[rec.ID]; ok {
			out[at].IsBookmark = out[at].IsBookmark || rec.IsBookmark
			continue
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	for _, rec := range bookmarks {
		if at, ok := index[rec.ID]; ok {
			out[at].IsBookmark = true
			continue
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out
}

// enrich fetches every work's detail page and merges the extracted
// fields in. Failures are counted per work and never abort the batch, a
// work deleted since it was read simply keeps its listing fields.
func (h *Harvester) enrich(ctx context.Context, works []WorkRecord, emit func(Progress)) (int, error) {
	failed := 0
	total := len(works)

	for i := range works {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		doc, err := h.fetchDoc(ctx, WorkUrl(works[i].ID))
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			slog.WarnContext(ctx, "failed to enrich work",
				"id", works[i].ID, "title", works[i].Title, "err", err)
			failed++
		} else {
			works[i] = mergePatch(works[i], ParseDetail(doc))
		}

		emit(Progress{
			Phase:   "enriching",
			Message: fmt.Sprintf("Enriched %d of %d works", i+1, total),
			Detail:  works[i].Title,
			Percent: 35 + 64*float64(i+1)/float64(total),
		})
	}

	return failed, nil
}

var visitDateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2006-01-02",
}

// ParseDate reads the free-text dates the archive prints on listing rows.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
