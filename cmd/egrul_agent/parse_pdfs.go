package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitry/egrul-agent/internal/pipeline"
)

var parsePDFsCmd = &cobra.Command{
	Use:   "parse-pdfs",
	Short: "Extract structured records from downloaded excerpt PDFs",
	Long:  "Reads every PDF in a directory, extracts entity fields (name, registration numbers, address, responsible person, founder) from the excerpt text, and writes one CSV row per file. Files are processed concurrently and a broken file never fails the run.",
	RunE:  runParsePDFs,
}

var (
	parsePDFsInputDir    string
	parsePDFsOut         string
	parsePDFsWorkers     int
	parsePDFsVerbose     bool
	parsePDFsDatabaseURL string
)

func init() {
	parsePDFsCmd.Flags().StringVarP(&parsePDFsInputDir, "input-dir", "d", "", "Directory containing excerpt PDFs (required)")
	parsePDFsCmd.Flags().StringVarP(&parsePDFsOut, "out", "o", "documents.csv", "Output CSV for document records")
	parsePDFsCmd.Flags().IntVar(&parsePDFsWorkers, "workers", min(runtime.NumCPU(), 32), "Number of concurrent workers")
	parsePDFsCmd.Flags().BoolVarP(&parsePDFsVerbose, "verbose", "v", false, "Print missing fields and extraction notes per file")
	parsePDFsCmd.Flags().StringVar(&parsePDFsDatabaseURL, "database-url", "", "PostgreSQL URL for run persistence (overrides DATABASE_URL env var)")

	if err := parsePDFsCmd.MarkFlagRequired("input-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark input-dir flag as required: %v", err))
	}

	rootCmd.AddCommand(parsePDFsCmd)
}

func runParsePDFs(_ *cobra.Command, _ []string) error {
	if parsePDFsWorkers < 1 || parsePDFsWorkers > 32 {
		return fmt.Errorf("workers must be between 1 and 32, got %d", parsePDFsWorkers)
	}
	if info, err := os.Stat(parsePDFsInputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("input directory not found: %s", parsePDFsInputDir)
	}

	databaseURL := parsePDFsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := pipeline.RunParsePDFs(ctx, pipeline.ParseOptions{
		InputDir:    parsePDFsInputDir,
		Out:         parsePDFsOut,
		Workers:     parsePDFsWorkers,
		Verbose:     parsePDFsVerbose,
		DatabaseURL: databaseURL,
	})
	return err
}
