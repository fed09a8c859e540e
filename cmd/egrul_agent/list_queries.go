package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitry/egrul-agent/internal/queries"
)

var listQueriesCmd = &cobra.Command{
	Use:   "list-queries",
	Short: "Show the identifiers that a scrape run would process",
	Long:  "Reads the identifier file the same way the scrape command does (column detection, validation, deduplication) and prints the resulting list without touching the registry. Useful for checking an input file before a long run.",
	RunE:  runListQueries,
}

var (
	listQueriesInput   string
	listQueriesColumn  int
	listQueriesLenient bool
)

func init() {
	listQueriesCmd.Flags().StringVarP(&listQueriesInput, "input", "i", "", "CSV or XLSX file with taxpayer identifiers (required)")
	listQueriesCmd.Flags().IntVar(&listQueriesColumn, "column", -1, "Identifier column index (default: detect by header)")
	listQueriesCmd.Flags().BoolVar(&listQueriesLenient, "lenient", false, "Accept identifiers longer than 10 digits")

	if err := listQueriesCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(listQueriesCmd)
}

func runListQueries(_ *cobra.Command, _ []string) error {
	list, err := queries.Read(listQueriesInput, queries.Options{Column: listQueriesColumn, Lenient: listQueriesLenient})
	if err != nil {
		return fmt.Errorf("failed to read identifiers from %s: %w", listQueriesInput, err)
	}
	for _, q := range list {
		fmt.Println(q)
	}
	fmt.Printf("Total: %d identifiers\n", len(list))
	return nil
}
