package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitry/egrul-agent/internal/config"
	"github.com/dmitry/egrul-agent/internal/pipeline"
	"github.com/dmitry/egrul-agent/internal/queries"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search the registry for each identifier and collect result records",
	Long:  "Reads taxpayer identifiers from a CSV or XLSX file, searches the registry for each one sequentially, classifies result rows as organizations or entrepreneurs, and writes both tables to CSV. Optionally downloads the excerpt PDF for each organization.",
	RunE:  runScrape,
}

var (
	scrapeInput        string
	scrapeConfigPath   string
	scrapeOutOrgs      string
	scrapeOutEntrep    string
	scrapeDownloadDir  string
	scrapeMaxRecords   int
	scrapeColumn       int
	scrapeDownloadPDFs bool
	scrapeHeadless     bool
	scrapeVerbose      bool
	scrapeLenient      bool
	scrapeDatabaseURL  string
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeInput, "input", "i", "", "CSV or XLSX file with taxpayer identifiers (required)")
	scrapeCmd.Flags().StringVar(&scrapeConfigPath, "config", "", "Optional JSON config file")
	scrapeCmd.Flags().StringVar(&scrapeOutOrgs, "out-organizations", "", "Output CSV for organization records (default organizations.csv)")
	scrapeCmd.Flags().StringVar(&scrapeOutEntrep, "out-entrepreneurs", "", "Output CSV for entrepreneur records (default entrepreneurs.csv)")
	scrapeCmd.Flags().StringVar(&scrapeDownloadDir, "download-dir", "", "Directory for downloaded excerpt PDFs (default downloads)")
	scrapeCmd.Flags().IntVar(&scrapeMaxRecords, "max-records", 0, "Maximum result records per query (default 10)")
	scrapeCmd.Flags().IntVar(&scrapeColumn, "column", -1, "Identifier column index (default: detect by header)")
	scrapeCmd.Flags().BoolVar(&scrapeDownloadPDFs, "download-pdfs", false, "Download the excerpt PDF for each organization row")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", true, "Run Chrome headless")
	scrapeCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print detailed debug information")
	scrapeCmd.Flags().BoolVar(&scrapeLenient, "lenient", false, "Accept identifiers longer than 10 digits")
	scrapeCmd.Flags().StringVar(&scrapeDatabaseURL, "database-url", "", "PostgreSQL URL for run persistence (overrides DATABASE_URL env var)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Input:            scrapeInput,
		OutOrganizations: scrapeOutOrgs,
		OutEntrepreneurs: scrapeOutEntrep,
		DownloadDir:      scrapeDownloadDir,
		MaxRecords:       scrapeMaxRecords,
		Column:           scrapeColumn,
		DownloadPDFs:     scrapeDownloadPDFs,
		Headless:         scrapeHeadless,
		Verbose:          scrapeVerbose,
		Lenient:          scrapeLenient,
		DatabaseURL:      scrapeDatabaseURL,
	}
	if scrapeConfigPath != "" {
		fileCfg, err := config.LoadConfig(scrapeConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		OutOrganizations: "organizations.csv",
		OutEntrepreneurs: "entrepreneurs.csv",
		DownloadDir:      "downloads",
		MaxRecords:       10,
	})
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Input == "" {
		return fmt.Errorf("input file required: set --input flag or the input key in the config file")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	list, err := queries.Read(cfg.Input, queries.Options{Column: cfg.Column, Lenient: cfg.Lenient})
	if err != nil {
		return fmt.Errorf("failed to read identifiers from %s: %w", cfg.Input, err)
	}
	if len(list) == 0 {
		return fmt.Errorf("no valid identifiers found in %s", cfg.Input)
	}
	fmt.Printf("Loaded %d identifiers from %s\n", len(list), cfg.Input)

	// Ctrl+C stops the run gracefully: collected records are still written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.RunScrape(ctx, pipeline.ScrapeOptions{
		Queries:          list,
		MaxRecords:       cfg.MaxRecords,
		DownloadPDFs:     cfg.DownloadPDFs,
		DownloadDir:      cfg.DownloadDir,
		Headless:         cfg.Headless,
		Verbose:          cfg.Verbose,
		OutOrganizations: cfg.OutOrganizations,
		OutEntrepreneurs: cfg.OutEntrepreneurs,
		DatabaseURL:      cfg.DatabaseURL,
	})
	return err
}
