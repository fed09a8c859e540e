// Package queries loads taxpayer identifiers from tabular input files.
package queries

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerAliases are the recognized case-insensitive names for the identifier
// column when one is not selected explicitly.
var headerAliases = []string{"inn", "инн", "inn_number", "id", "code"}

// fallbackColumn is checked when no alias matched: registry exports commonly
// carry the identifier in the fourth column under a bare "инн" header.
const fallbackColumn = 3

// Options controls column selection and identifier validation.
type Options struct {
	// Column selects the identifier column explicitly; negative means
	// heuristic header matching.
	Column int
	// Lenient accepts any digits-only identifier of at least 10 characters
	// instead of exactly 10. Used together with an explicit column override.
	Lenient bool
}

// DefaultOptions returns heuristic column selection with strict validation.
func DefaultOptions() Options {
	return Options{Column: -1}
}

// Read loads, validates, and deduplicates identifiers from a CSV or XLSX
// file. Invalid cells are logged and skipped, never fatal. Duplicates are
// removed by exact string equality, first occurrence wins, order preserved.
func Read(path string, opts Options) ([]string, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows found in %s", path)
	}

	col, skipHeader := selectColumn(rows[0], opts)

	valid := func(s string) bool {
		if s == "" || !isDigits(s) {
			return false
		}
		if opts.Lenient {
			return len(s) >= 10
		}
		return len(s) == 10
	}

	var list []string
	start := 0
	if skipHeader {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) <= col {
			continue
		}
		cell := strings.Trim(strings.TrimSpace(row[col]), `"`)
		if cell == "" {
			continue
		}
		if !valid(cell) {
			log.Printf("skipping invalid identifier at row %d: %q", i+1, cell)
			continue
		}
		list = append(list, cell)
	}

	return Dedupe(list), nil
}

// Dedupe removes repeated identifiers while preserving first-occurrence
// order.
func Dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, q := range list {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// selectColumn picks the identifier column from the first row. It returns the
// column index and whether the first row is a header to skip.
func selectColumn(first []string, opts Options) (int, bool) {
	if opts.Column >= 0 {
		// Explicit override: the first row is still a header unless its cell
		// already looks like an identifier.
		if opts.Column < len(first) && isDigits(strings.TrimSpace(first[opts.Column])) {
			return opts.Column, false
		}
		return opts.Column, true
	}

	for i, cell := range first {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(cell), `"`))
		for _, alias := range headerAliases {
			if name == alias {
				return i, true
			}
		}
	}

	if len(first) > fallbackColumn {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(first[fallbackColumn]), `"`))
		if name == "инн" {
			return fallbackColumn, true
		}
	}

	// No recognized header: default to the first column, and only skip the
	// first row when it does not itself hold an identifier.
	if len(first) > 0 && isDigits(strings.TrimSpace(first[0])) {
		return 0, false
	}
	return 0, true
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sample := make([]byte, 1024)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to sample %s: %w", path, err)
	}
	delimiter := sniffDelimiter(string(sample[:n]))
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	return rows, nil
}

// sniffDelimiter auto-detects between semicolon and comma; semicolon wins
// when it appears at all, matching the exports this tool consumes.
func sniffDelimiter(sample string) rune {
	if strings.Count(sample, ";") > 0 && strings.Count(sample, ";") >= strings.Count(sample, ",") {
		return ';'
	}
	return ','
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
