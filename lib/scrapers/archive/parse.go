package archive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FYIFriday/Smut-Wrapped/lib/htmlutil"
	"github.com/PuerkitoBio/goquery"
)

// This file is the only place that knows the archive's markup. A markup
// change on their side should never require touching the harvester.

var workHrefRegex = regexp.MustCompile(`/works/(\d+)`)

// selText walks the selection's nodes and returns their cleaned text.
func selText(sel *goquery.Selection) string {
	var raw strings.Builder
	for _, n := range sel.Nodes {
		raw.WriteString(htmlutil.GetText(n))
	}
	return htmlutil.CleanText(raw.String())
}

// ParsePageBound returns the highest page number advertised by the
// pagination control, or 1 when the listing fits on a single page.
func ParsePageBound(doc *goquery.Document) int {
	bound := 1
	doc.Find("ol.pagination li a").Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			return
		}
		if n > bound {
			bound = n
		}
	})
	return bound
}

// ParseListingRows extracts one partial WorkRecord per work blurb on a
// history or bookmarks listing page. Rows without a resolvable work id
// (deleted works render a blurb with no permalink) are dropped.
func ParseListingRows(doc *goquery.Document, source Source) []WorkRecord {
	var records []WorkRecord

	doc.Find("li.blurb.group").Each(func(_ int, row *goquery.Selection) {
		id := ""
		title := ""
		row.Find("h4.heading a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href := a.AttrOr("href", "")
			groups := workHrefRegex.FindStringSubmatch(href)
			if groups == nil {
				return true
			}
			id = groups[1]
			title = selText(a)
			return false
		})
		if id == "" {
			return
		}

		rec := WorkRecord{
			ID:            id,
			Title:         title,
			Authors:       tagTexts(row.Find("h4.heading a[rel=author]")),
			Fandoms:       tagTexts(row.Find("h5.fandoms a.tag")),
			Relationships: tagTexts(row.Find("li.relationships a.tag")),
			Characters:    tagTexts(row.Find("li.characters a.tag")),
			FreeformTags:  tagTexts(row.Find("li.freeforms a.tag")),
			Warnings:      tagTexts(row.Find("li.warnings a.tag")),
			WordCount:     htmlutil.ParseCount(selText(row.Find("dd.words").First())),
			VisitCount:    1,
		}

		switch source {
		case SourceBookmarks:
			rec.IsBookmark = true
			rec.LastVisited = selText(row.Find("div.user p.datetime").First())
		default:
			visits, lastVisited := parseVisitStatus(selText(row.Find("h4.viewed.heading").First()))
			rec.VisitCount = visits
			rec.LastVisited = lastVisited
		}

		records = append(records, rec)
	})

	return records
}

var (
	lastVisitedRegex = regexp.MustCompile(`Last visited:?\s*(\d{1,2} [A-Za-z]+ \d{4})`)
	visitCountRegex  = regexp.MustCompile(`Visited (\d+) times?`)
)

// parseVisitStatus reads the "Last visited: 08 Jan 2022 ... Visited 3
// times" status line of a history row. A work visited exactly once says
// "Visited once" instead of carrying a number.
func parseVisitStatus(status string) (int, string) {
	visits := 1
	if groups := visitCountRegex.FindStringSubmatch(status); groups != nil {
		if n, err := strconv.Atoi(groups[1]); err == nil && n > 0 {
			visits = n
		}
	}
	lastVisited := ""
	if groups := lastVisitedRegex.FindStringSubmatch(status); groups != nil {
		lastVisited = groups[1]
	}
	return visits, lastVisited
}

// ParseDetail extracts the enrichment fields from a work's own page.
// Every missing field resolves to its absent value, never an error.
func ParseDetail(doc *goquery.Document) detailPatch {
	meta := doc.Find("dl.work.meta.group")
	stats := meta.Find("dl.stats")

	chapters := selText(stats.Find("dd.chapters").First())

	return detailPatch{
		Rating:        ratingFromTag(selText(meta.Find("dd.rating.tags a.tag").First())),
		Warnings:      tagTexts(meta.Find("dd.warning.tags a.tag")),
		Fandoms:       tagTexts(meta.Find("dd.fandom.tags a.tag")),
		Relationships: tagTexts(meta.Find("dd.relationship.tags a.tag")),
		Characters:    tagTexts(meta.Find("dd.character.tags a.tag")),
		FreeformTags:  tagTexts(meta.Find("dd.freeform.tags a.tag")),
		WordCount:     htmlutil.ParseCount(selText(stats.Find("dd.words").First())),
		Chapters:      chapters,
		Completion:    completionFromChapters(chapters),
		Kudos:         htmlutil.ParseCount(selText(stats.Find("dd.kudos").First())),
		Bookmarks:     htmlutil.ParseCount(selText(stats.Find("dd.bookmarks").First())),
		Hits:          htmlutil.ParseCount(selText(stats.Find("dd.hits").First())),
		DatePublished: selText(stats.Find("dd.published").First()),
		DateUpdated:   selText(stats.Find("dd.status").First()),
	}
}

func tagTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, a *goquery.Selection) {
		text := selText(a)
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}

func ratingFromTag(text string) Rating {
	switch text {
	case string(RatingExplicit):
		return RatingExplicit
	case string(RatingMature):
		return RatingMature
	case string(RatingTeen):
		return RatingTeen
	case string(RatingGeneral):
		return RatingGeneral
	case string(RatingNotRated):
		return RatingNotRated
	}
	return RatingUnknown
}

// completionFromChapters derives completeness from the "current/total"
// chapter counter. An open-ended total ("12/?") marks a work in
// progress, anything else with a total is complete.
func completionFromChapters(chapters string) Completion {
	parts := strings.SplitN(chapters, "/", 2)
	if len(parts) != 2 {
		return CompletionUnknown
	}
	total := strings.TrimSpace(parts[1])
	if total == "" {
		return CompletionUnknown
	}
	if total == "?" {
		return CompletionInProgress
	}
	return CompletionComplete
}
