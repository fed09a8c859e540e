package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"input": "queries.csv",
		"max_records": 25,
		"workers": 8,
		"download_pdfs": true,
		"database_url": "postgres://localhost/egrul"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "queries.csv", cfg.Input)
	assert.Equal(t, 25, cfg.MaxRecords)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.DownloadPDFs)
	assert.Equal(t, "postgres://localhost/egrul", cfg.DatabaseURL)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"Empty path", ""},
		{"Missing file", filepath.Join(t.TempDir(), "absent.json")},
		{"Invalid JSON", writeTempConfig(t, `{not json`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	input := writeTempConfig(t, "inn\n1234567890\n")

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Valid", Config{Input: input, MaxRecords: 10, Workers: 4}, false},
		{"Zero values pass as unset", Config{}, false},
		{"Negative max records", Config{MaxRecords: -1}, true},
		{"Too many workers", Config{Workers: 64}, true},
		{"Missing input file", Config{Input: filepath.Join(t.TempDir(), "absent.csv")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Input: "explicit.csv"}
	merged := cfg.MergeWithDefaults(Config{
		Input:       "default.csv",
		DownloadDir: "downloads",
		MaxRecords:  10,
		Workers:     4,
	})

	assert.Equal(t, "explicit.csv", merged.Input, "explicit value wins over the default")
	assert.Equal(t, "downloads", merged.DownloadDir)
	assert.Equal(t, 10, merged.MaxRecords)
	assert.Equal(t, 4, merged.Workers)
}

func TestMergeWithDefaultsColumn(t *testing.T) {
	unset := Config{Column: -1}
	assert.Equal(t, 3, unset.MergeWithDefaults(Config{Column: 3}).Column, "-1 means unset and takes the default")

	explicit := Config{Column: 0}
	assert.Equal(t, 0, explicit.MergeWithDefaults(Config{Column: 3}).Column, "column 0 is a real selection and is kept")
}
