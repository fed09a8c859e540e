package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResultRow is one rendered entry from the result listing. It exists only
// while the session's page is loaded and is never persisted directly.
type ResultRow struct {
	// Index is the row's position within its page, used to address the
	// row's controls when triggering a download.
	Index int
	// Name is the entity display name from the row's caption link.
	Name string
	// Text is the row's full rendered text, fed to the classifier and the
	// field extractor.
	Text string
	// HasDownload reports whether the row offers an excerpt button.
	HasDownload bool
}

// ParseResultRows extracts the result rows from a rendered results page.
func ParseResultRows(html string) []ResultRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var rows []ResultRow
	doc.Find("div.res-row").Each(func(i int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find("a").First().Text())
		text := strings.TrimSpace(sel.Text())
		if name == "" {
			// No caption link; fall back to the first text line.
			if idx := strings.IndexByte(text, '\n'); idx > 0 {
				name = strings.TrimSpace(text[:idx])
			} else {
				name = text
			}
		}
		rows = append(rows, ResultRow{
			Index:       i,
			Name:        name,
			Text:        text,
			HasDownload: sel.Find("button").Length() > 0,
		})
	})
	return rows
}

// HasPageLink reports whether the rendered page offers a pager link for the
// given page number.
func HasPageLink(html string, page int) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	sel := fmt.Sprintf(`a.lnk-page[data-page="%d"]`, page)
	return doc.Find(sel).Length() > 0
}
