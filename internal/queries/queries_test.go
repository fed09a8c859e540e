package queries

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadHeaderAliases(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Latin inn header", "name,inn\nООО РОМАШКА,1234567890\n"},
		{"Cyrillic header", "название,ИНН\nООО РОМАШКА,1234567890\n"},
		{"inn_number header", "id2,inn_number\nx,1234567890\n"},
		{"Quoted header", `"x","INN"` + "\nx,1234567890\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Read(writeTempCSV(t, tt.content), DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, []string{"1234567890"}, list)
		})
	}
}

func TestReadFallbackColumn(t *testing.T) {
	// No alias in any column, but the fourth column is titled "инн".
	content := "a,b,c,инн\nx,y,z,1234567890\nx,y,z,9876543210\n"
	list, err := Read(writeTempCSV(t, content), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, list)
}

func TestReadFirstColumnWithoutHeader(t *testing.T) {
	// Identifiers starting on the first line: nothing is skipped.
	content := "1234567890\n9876543210\n"
	list, err := Read(writeTempCSV(t, content), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, list)
}

func TestReadSemicolonDelimiter(t *testing.T) {
	content := "name;inn\nООО, РОМАШКА;1234567890\n"
	list, err := Read(writeTempCSV(t, content), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, list)
}

func TestReadSkipsInvalidIdentifiers(t *testing.T) {
	content := "inn\n1234567890\nnot-a-number\n12345\n123456789012\n9876543210\n"
	list, err := Read(writeTempCSV(t, content), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, list, "strict mode keeps only 10-digit identifiers")
}

func TestReadLenient(t *testing.T) {
	content := "inn\n1234567890\n123456789012\n12345\n"
	list, err := Read(writeTempCSV(t, content), Options{Column: -1, Lenient: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "123456789012"}, list, "lenient mode accepts 10 or more digits")
}

func TestReadExplicitColumn(t *testing.T) {
	content := "1234567890,ООО РОМАШКА\n9876543210,ООО ВЕГА\n"
	list, err := Read(writeTempCSV(t, content), Options{Column: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, list, "a data-looking first row is not skipped")
}

func TestReadDeduplicates(t *testing.T) {
	content := "inn\n1234567890\n9876543210\n1234567890\n5555555555\n9876543210\n"
	list, err := Read(writeTempCSV(t, content), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210", "5555555555"}, list, "first occurrence wins, order preserved")
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "inn"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"ООО РОМАШКА", "1234567890"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"ООО ВЕГА", "9876543210"}))
	require.NoError(t, f.SaveAs(path))

	list, err := Read(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, list)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"), DefaultOptions())
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"Repeats removed in order", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"No repeats", []string{"a", "b"}, []string{"a", "b"}},
		{"Empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input))
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter("a;b;c\n1;2;3"))
	assert.Equal(t, ',', sniffDelimiter("a,b,c\n1,2,3"))
	assert.Equal(t, ';', sniffDelimiter("a;b,c"), "semicolon wins when counts tie")
	assert.Equal(t, ',', sniffDelimiter("plain text"))
}
