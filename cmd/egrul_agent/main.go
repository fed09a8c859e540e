// Package main provides the egrul_agent CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "egrul_agent",
	Short: "EGRUL registry scraper and excerpt extractor",
	Long:  "egrul_agent retrieves legal entity records from the Russian EGRUL registry by taxpayer number, downloads excerpt PDFs, and extracts structured data from them into CSV tables.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
