// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ScrapeSummary aggregates the outcome of one retrieval run.
type ScrapeSummary struct {
	Queries       int
	Organizations int
	Entrepreneurs int
	Downloads     int
	Failed        int
	Interrupted   bool
}

// PrintScrapeSummary outputs the run totals for the retrieval pipeline.
func (p *Printer) PrintScrapeSummary(s ScrapeSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Queries processed:     %d\n", s.Queries))
	sb.WriteString(fmt.Sprintf("Organization records:  %d\n", s.Organizations))
	sb.WriteString(fmt.Sprintf("Entrepreneur records:  %d\n", s.Entrepreneurs))
	sb.WriteString(fmt.Sprintf("PDFs downloaded:       %d\n", s.Downloads))
	sb.WriteString(fmt.Sprintf("Failed queries:        %d", s.Failed))
	if s.Interrupted {
		sb.WriteString("\n\nRun interrupted; partial output flushed.")
	}
	p.printBox("Scrape Summary", sb.String())
}

// ParseSummary aggregates the outcome of one document-extraction run.
type ParseSummary struct {
	Files   int
	Success int
	Errors  int
}

// PrintParseSummary outputs the run totals for the document pipeline.
func (p *Printer) PrintParseSummary(s ParseSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("PDF files found:       %d\n", s.Files))
	sb.WriteString(fmt.Sprintf("Parsed successfully:   %d\n", s.Success))
	sb.WriteString(fmt.Sprintf("Extraction errors:     %d", s.Errors))
	p.printBox("Parse Summary", sb.String())
}

// PrintMissingFields lists the fields an extraction pass could not find for
// one document. Purely diagnostic.
func (p *Printer) PrintMissingFields(filename string, missing []string) {
	if len(missing) == 0 {
		return
	}
	var sb strings.Builder
	count := min(len(missing), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", missing[i]))
	}
	if len(missing) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(missing)-maxItemsToShow))
	}
	p.printBox("Missing fields: "+filename, strings.TrimRight(sb.String(), "\n"))
}
