// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input            string `json:"input,omitempty"`             // Path to the CSV/XLSX identifier list
	OutOrganizations string `json:"out_organizations,omitempty"` // Output CSV for organization records
	OutEntrepreneurs string `json:"out_entrepreneurs,omitempty"` // Output CSV for entrepreneur records
	OutDocuments     string `json:"out_documents,omitempty"`     // Output CSV for the document pipeline
	DownloadDir      string `json:"download_dir,omitempty"`      // Directory for downloaded excerpt PDFs

	// Limits
	MaxRecords int `json:"max_records,omitempty" validate:"omitempty,gte=1"`           // Maximum records extracted per query
	Workers    int `json:"workers,omitempty" validate:"omitempty,gte=1,lte=32"`        // Document pipeline worker count
	// Column overrides identifier column selection (-1 = heuristic). A JSON
	// zero is indistinguishable from an absent key, so column 0 can only be
	// selected via the --column flag, not from a config file.
	Column int `json:"column,omitempty" validate:"omitempty,gte=-1"`

	// Behavior
	DownloadPDFs bool   `json:"download_pdfs,omitempty"` // Download excerpt PDFs for organization rows
	Headless     bool   `json:"headless,omitempty"`      // Run Chrome headless
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed debug information
	Lenient      bool   `json:"lenient,omitempty"`       // Accept identifiers longer than 10 digits
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL (optional)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.OutOrganizations == "" {
		result.OutOrganizations = defaults.OutOrganizations
	}
	if result.OutEntrepreneurs == "" {
		result.OutEntrepreneurs = defaults.OutEntrepreneurs
	}
	if result.OutDocuments == "" {
		result.OutDocuments = defaults.OutDocuments
	}
	if result.DownloadDir == "" {
		result.DownloadDir = defaults.DownloadDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxRecords == 0 {
		result.MaxRecords = defaults.MaxRecords
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	// Column treats -1 as unset (heuristic selection); 0 is a valid explicit
	// column on the flag side but cannot come from a config file, see the
	// field comment.
	if result.Column == -1 && defaults.Column > 0 {
		result.Column = defaults.Column
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
