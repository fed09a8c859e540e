package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dmitry/egrul-agent/internal/db"
	"github.com/dmitry/egrul-agent/internal/extraction"
	"github.com/dmitry/egrul-agent/internal/observability"
	"github.com/dmitry/egrul-agent/internal/output"
	"github.com/dmitry/egrul-agent/internal/pdftext"
	"github.com/dmitry/egrul-agent/internal/types"
)

// ParseOptions holds configuration for the document pipeline.
type ParseOptions struct {
	InputDir    string
	Out         string
	Workers     int
	Verbose     bool
	DatabaseURL string
}

// RunParsePDFs extracts structured records from every PDF under InputDir.
// Files are processed concurrently with a bounded worker pool, and each file
// is handled in isolation: a file that cannot be read or yields no text
// produces a record carrying only its filename and the error, never a failed
// run. Results keep the sorted order of the input files regardless of
// completion order.
func RunParsePDFs(ctx context.Context, opts ParseOptions) (observability.ParseSummary, error) {
	printer := observability.NewPrinter(os.Stdout)
	summary := observability.ParseSummary{}

	files, err := filepath.Glob(filepath.Join(opts.InputDir, "*.pdf"))
	if err != nil {
		return summary, fmt.Errorf("failed to list PDFs in %s: %w", opts.InputDir, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return summary, fmt.Errorf("no PDF files found in %s", opts.InputDir)
	}
	summary.Files = len(files)
	fmt.Printf("Found %d PDF files in %s\n", len(files), opts.InputDir)

	store, runID := connectStore(ctx, opts.DatabaseURL, db.KindParse, opts.InputDir, opts.Verbose)
	if store != nil {
		defer store.Close()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	records := make([]*types.DocumentRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			records[i] = parseOne(path, opts.Verbose, printer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	for _, rec := range records {
		if rec.Error == "" {
			summary.Success++
		} else {
			summary.Errors++
		}
		saveRecord(ctx, store, runID, rec.Filename, "document", rec)
	}

	if err := output.WriteDocuments(opts.Out, records); err != nil {
		return summary, err
	}

	completeRun(store, runID, false)
	printer.PrintParseSummary(summary)
	return summary, nil
}

// parseOne extracts one document record. It never fails: any problem is
// folded into the record's Error field.
func parseOne(path string, verbose bool, printer *observability.Printer) *types.DocumentRecord {
	filename := filepath.Base(path)

	text, err := pdftext.ExtractFile(path)
	if err != nil {
		log.Printf("could not read %s: %v", filename, err)
		return &types.DocumentRecord{Filename: filename, Error: err.Error()}
	}
	if text == "" {
		log.Printf("no text extracted from %s", filename)
		return &types.DocumentRecord{Filename: filename, Error: "no text extracted"}
	}

	rec, diags := extraction.ExtractDocument(filename, text)
	if verbose {
		if len(diags.Missing) > 0 {
			printer.PrintMissingFields(filename, diags.Missing)
		}
		for _, note := range diags.Notes {
			fmt.Printf("[VERBOSE] %s: %s\n", filename, note)
		}
	}
	return rec
}
