// Package pipeline provides the high-level orchestration for the retrieval
// and document-extraction runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitry/egrul-agent/internal/browser"
	"github.com/dmitry/egrul-agent/internal/db"
	"github.com/dmitry/egrul-agent/internal/download"
	"github.com/dmitry/egrul-agent/internal/extraction"
	"github.com/dmitry/egrul-agent/internal/observability"
	"github.com/dmitry/egrul-agent/internal/output"
	"github.com/dmitry/egrul-agent/internal/types"
)

// sessionRecycleInterval is how many queries a browser session serves before
// its liveness is re-checked.
const sessionRecycleInterval = 20

// maxUnfinishedDownloads aborts the run when this many consecutive downloads
// fail to settle, which usually means the registry started throttling us.
const maxUnfinishedDownloads = 5

// ScrapeOptions holds configuration for the retrieval pipeline.
type ScrapeOptions struct {
	Queries          []string
	MaxRecords       int
	DownloadPDFs     bool
	DownloadDir      string
	Headless         bool
	Verbose          bool
	OutOrganizations string
	OutEntrepreneurs string
	DatabaseURL      string
}

// resultPager is the slice of the browser session the record collector
// drives: advancing through result pages and clicking excerpt buttons on the
// currently rendered page.
type resultPager interface {
	NextPage(ctx context.Context, page int) ([]browser.ResultRow, bool, error)
	DownloadExcerpt(ctx context.Context, row browser.ResultRow) error
}

// RunScrape processes queries strictly sequentially: one browser session, one
// query at a time, randomized pauses in between. Per-query failures are
// counted and skipped; a dead session is recreated, and a failed recreation
// terminates the run early with whatever output has accumulated. Context
// cancellation is treated as a request to stop gracefully: the session is
// closed and the output tables are flushed before returning.
func RunScrape(ctx context.Context, opts ScrapeOptions) (observability.ScrapeSummary, error) {
	printer := observability.NewPrinter(os.Stdout)
	summary := observability.ScrapeSummary{}

	store, runID := connectStore(ctx, opts.DatabaseURL, db.KindScrape, fmt.Sprintf("%d queries", len(opts.Queries)), opts.Verbose)
	if store != nil {
		defer store.Close()
	}

	if opts.DownloadPDFs {
		if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
			return summary, fmt.Errorf("failed to create download directory %s: %w", opts.DownloadDir, err)
		}
	}

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:    opts.Headless,
		DownloadDir: opts.DownloadDir,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		return summary, fmt.Errorf("failed to start browser session: %w", err)
	}
	// session may be replaced by recreation; close whichever is current.
	defer func() { session.Close() }()

	var organizations []*types.OrganizationRecord
	var entrepreneurs []*types.EntrepreneurRecord
	unfinished := 0

	for i, query := range opts.Queries {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		if i > 0 && i%sessionRecycleInterval == 0 && !session.Alive() {
			session, err = browser.Recreate(ctx, session)
			if err != nil {
				log.Printf("failed to recreate browser session, stopping early: %v", err)
				summary.Interrupted = true
				break
			}
		}

		fmt.Printf("Query %d/%d: %s\n", i+1, len(opts.Queries), query)

		rows, err := searchWithRecovery(ctx, &session, query)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				summary.Interrupted = true
				break
			}
			log.Printf("query %s failed: %v", query, err)
			summary.Failed++
			continue
		}
		if len(rows) == 0 {
			log.Printf("nothing found for %s", query)
			summary.Failed++
			continue
		}

		res := collectQuery(ctx, session, query, rows, opts, &unfinished)
		organizations = append(organizations, res.organizations...)
		entrepreneurs = append(entrepreneurs, res.entrepreneurs...)
		summary.Downloads += res.downloads
		for _, rec := range res.organizations {
			saveRecord(ctx, store, runID, query, "organization", rec)
		}
		for _, rec := range res.entrepreneurs {
			saveRecord(ctx, store, runID, query, "entrepreneur", rec)
		}

		summary.Queries++
		if res.stopped {
			summary.Interrupted = true
			break
		}

		if err := browser.Pause(ctx, 1*time.Second, 2*time.Second); err != nil {
			summary.Interrupted = true
			break
		}
	}

	summary.Organizations = len(organizations)
	summary.Entrepreneurs = len(entrepreneurs)

	// Flush accumulated output even on interruption or early termination.
	if err := output.WriteOrganizations(opts.OutOrganizations, organizations); err != nil {
		return summary, err
	}
	if err := output.WriteEntrepreneurs(opts.OutEntrepreneurs, entrepreneurs); err != nil {
		return summary, err
	}

	completeRun(store, runID, summary.Interrupted)
	printer.PrintScrapeSummary(summary)
	return summary, nil
}

// queryResult accumulates one query's extracted records.
type queryResult struct {
	organizations []*types.OrganizationRecord
	entrepreneurs []*types.EntrepreneurRecord
	downloads     int
	stopped       bool
}

// collectQuery walks the result pages for one query, extracting records and
// downloading excerpts page by page. Each row's excerpt is downloaded while
// the row's own page is still rendered, and only then is the pager advanced:
// the excerpt button selector addresses the current DOM by row position, so
// clicking it after pagination would fetch a different entity's document.
func collectQuery(ctx context.Context, pager resultPager, query string, rows []browser.ResultRow, opts ScrapeOptions, unfinished *int) queryResult {
	var res queryResult
	maxRecords := opts.MaxRecords
	if maxRecords <= 0 {
		maxRecords = len(rows)
	}

	collected := 0
	for page := 2; ; page++ {
		for _, row := range rows {
			if collected >= maxRecords {
				return res
			}
			if ctx.Err() != nil {
				res.stopped = true
				return res
			}

			if extraction.IsEntrepreneur(row.Text) {
				res.entrepreneurs = append(res.entrepreneurs, extraction.ExtractEntrepreneur(query, row.Name, row.Text))
				collected++
				continue
			}

			rec := extraction.ExtractOrganization(query, row.Name, row.Text)
			if opts.DownloadPDFs && row.HasDownload {
				name, stop := downloadExcerpt(ctx, pager, query, opts.DownloadDir, row, unfinished)
				if name != "" {
					rec.PDFFile = name
					res.downloads++
				}
				if stop {
					res.organizations = append(res.organizations, rec)
					res.stopped = true
					return res
				}
			}
			res.organizations = append(res.organizations, rec)
			collected++
		}

		if collected >= maxRecords {
			return res
		}
		more, ok, err := pager.NextPage(ctx, page)
		if err != nil || !ok {
			if err != nil {
				log.Printf("pagination stopped at page %d: %v", page, err)
				if errors.Is(err, context.Canceled) {
					res.stopped = true
				}
			}
			return res
		}
		rows = more
	}
}

// searchWithRecovery runs one search, recreating the session once on a fatal
// session error before giving up on the query.
func searchWithRecovery(ctx context.Context, session **browser.Session, query string) ([]browser.ResultRow, error) {
	rows, err := (*session).Search(ctx, query)
	if err == nil || !browser.IsFatalSessionError(err) {
		return rows, err
	}

	log.Printf("session died on query %s, recreating: %v", query, err)
	fresh, recErr := browser.Recreate(ctx, *session)
	if recErr != nil {
		return nil, fmt.Errorf("session recreation failed: %w", recErr)
	}
	*session = fresh
	return fresh.Search(ctx, query)
}

// downloadExcerpt triggers and correlates one PDF download. It returns the
// renamed file and whether the run should stop because downloads keep
// failing to settle.
func downloadExcerpt(ctx context.Context, pager resultPager, query, dir string, row browser.ResultRow, unfinished *int) (string, bool) {
	before, err := download.Snapshot(dir)
	if err != nil {
		log.Printf("snapshot before download failed for %s: %v", query, err)
		return "", false
	}

	if err := pager.DownloadExcerpt(ctx, row); err != nil {
		log.Printf("download failed for %s: %v", query, err)
		return "", false
	}

	hadPartials, err := download.AwaitSettled(ctx, dir)
	if err != nil {
		return "", errors.Is(err, context.Canceled)
	}
	if hadPartials {
		*unfinished++
		if *unfinished > maxUnfinishedDownloads {
			log.Printf("too many consecutive unfinished downloads, stopping")
			return "", true
		}
	} else {
		*unfinished = 0
	}

	name, err := download.CorrelateAndRename(dir, before, query)
	if err != nil {
		log.Printf("could not correlate download for %s: %v", query, err)
		return "", false
	}
	return name, false
}

// connectStore opens the optional database connection; a failure degrades to
// a warning and the run continues without persistence.
func connectStore(ctx context.Context, databaseURL, kind, source string, verbose bool) (*db.DB, uuid.UUID) {
	if databaseURL == "" {
		return nil, uuid.Nil
	}
	store, err := db.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("Warning: Failed to connect to database: %v\n", err)
		fmt.Printf("Continuing without database persistence...\n")
		return nil, uuid.Nil
	}
	runID, err := store.CreateRun(ctx, kind, source)
	if err != nil {
		fmt.Printf("Warning: Failed to create database run: %v\n", err)
		return store, uuid.Nil
	}
	if verbose {
		fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
	}
	return store, runID
}

func saveRecord(ctx context.Context, store *db.DB, runID uuid.UUID, key, kind string, record any) {
	if store == nil || runID == uuid.Nil {
		return
	}
	if err := store.SaveRecord(ctx, runID, key, kind, record); err != nil {
		log.Printf("failed to persist %s record for %s: %v", kind, key, err)
	}
}

func completeRun(store *db.DB, runID uuid.UUID, interrupted bool) {
	if store == nil || runID == uuid.Nil {
		return
	}
	status := "completed"
	if interrupted {
		status = "interrupted"
	}
	// The run context may already be canceled; completion uses its own.
	finishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = store.CompleteRun(finishCtx, runID, status)
}
