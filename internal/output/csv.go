// Package output serializes extracted records to CSV tables.
package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dmitry/egrul-agent/internal/types"
)

var organizationHeader = []string{
	"search_query", "entity_name", "region", "ogrn", "inn",
	"head_name", "status", "stop_date", "pdf_file", "full_text",
}

var entrepreneurHeader = []string{"search_query", "entity_name", "full_text"}

var documentHeader = []string{
	"filename", "full_name", "ogrn", "inn", "address", "location",
	"responsible_person_name", "responsible_person_inn",
	"responsible_person_position", "responsible_person_approval_date",
	"founder_full_name", "founder_inn", "founder_ogrn", "founder_date",
	"error",
}

// WriteOrganizations writes organization records to path with a stable header
// row. Missing fields serialize as empty cells.
func WriteOrganizations(path string, records []*types.OrganizationRecord) error {
	return writeTable(path, organizationHeader, len(records), func(i int) []string {
		r := records[i]
		return []string{
			r.SearchQuery, r.EntityName, r.Region, r.OGRN, r.INN,
			r.HeadName, r.Status, r.StopDate, r.PDFFile, r.FullText,
		}
	})
}

// WriteEntrepreneurs writes entrepreneur records to path.
func WriteEntrepreneurs(path string, records []*types.EntrepreneurRecord) error {
	return writeTable(path, entrepreneurHeader, len(records), func(i int) []string {
		r := records[i]
		return []string{r.SearchQuery, r.EntityName, r.FullText}
	})
}

// WriteDocuments writes document records to path.
func WriteDocuments(path string, records []*types.DocumentRecord) error {
	return writeTable(path, documentHeader, len(records), func(i int) []string {
		r := records[i]
		return []string{
			r.Filename, r.FullName, r.OGRN, r.INN, r.Address, r.Location,
			r.ResponsiblePersonName, r.ResponsiblePersonINN,
			r.ResponsiblePersonPosition, r.ResponsiblePersonApprovalDate,
			r.FounderFullName, r.FounderINN, r.FounderOGRN, r.FounderDate,
			r.Error,
		}
	})
}

func writeTable(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
