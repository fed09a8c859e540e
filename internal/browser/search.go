package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	queryInputID   = "query"
	searchButtonID = "btnSearch"

	// maxSearchRetries bounds in-place retries of one search before the
	// query is reported failed.
	maxSearchRetries = 2
)

// Search submits one query through the search form and returns the parsed
// result rows of the first page. Transient failures (missing elements,
// intercepted clicks) are retried in place with a page refresh between
// attempts; fatal session errors are returned for the caller to recreate the
// session.
func (s *Session) Search(ctx context.Context, query string) ([]ResultRow, error) {
	var lastErr error
	for attempt := 0; attempt <= maxSearchRetries; attempt++ {
		if attempt > 0 {
			if err := s.Refresh(); err != nil {
				return nil, &Error{Query: query, Message: "refresh between retries failed", Cause: err}
			}
			if err := Pause(ctx, 2*time.Second, 3*time.Second); err != nil {
				return nil, err
			}
		}

		err := s.run(
			chromedp.WaitVisible("#"+queryInputID, chromedp.ByID),
			chromedp.Clear("#"+queryInputID, chromedp.ByID),
			chromedp.SendKeys("#"+queryInputID, query, chromedp.ByID),
			chromedp.Click("#"+searchButtonID, chromedp.ByID),
		)
		if err != nil {
			if IsFatalSessionError(err) {
				return nil, &Error{Query: query, Message: "session died during search", Cause: err}
			}
			lastErr = err
			continue
		}

		// Short pause for the result list to render.
		if err := Pause(ctx, 2*time.Second, 2*time.Second); err != nil {
			return nil, err
		}

		html, err := s.HTML()
		if err != nil {
			lastErr = err
			continue
		}
		return ParseResultRows(html), nil
	}
	return nil, &Error{Query: query, Message: fmt.Sprintf("search failed after %d attempts", maxSearchRetries+1), Cause: lastErr}
}

// NextPage clicks the pager link for the given 1-based page number and
// returns the newly rendered rows. ok is false when the page link does not
// exist, i.e. the result set is exhausted.
func (s *Session) NextPage(ctx context.Context, page int) (rows []ResultRow, ok bool, err error) {
	html, err := s.HTML()
	if err != nil {
		return nil, false, err
	}
	if !HasPageLink(html, page) {
		return nil, false, nil
	}

	sel := fmt.Sprintf(`a.lnk-page[data-page="%d"]`, page)
	if err := s.run(chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return nil, false, &Error{Message: fmt.Sprintf("failed to open page %d", page), Cause: err}
	}
	if err := Pause(ctx, 1*time.Second, 2*time.Second); err != nil {
		return nil, false, err
	}

	html, err = s.HTML()
	if err != nil {
		return nil, false, err
	}
	return ParseResultRows(html), true, nil
}

// DownloadExcerpt clicks the excerpt button of the given result row,
// triggering a PDF download into the session's download directory.
func (s *Session) DownloadExcerpt(ctx context.Context, row ResultRow) error {
	sel := fmt.Sprintf(`div.res-row:nth-of-type(%d) button`, row.Index+1)
	if err := s.run(chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return &Error{Message: fmt.Sprintf("failed to trigger download for row %d", row.Index), Cause: err}
	}
	// Give the download a moment to start before the caller snapshots the
	// directory.
	return Pause(ctx, 1*time.Second, 1*time.Second)
}
