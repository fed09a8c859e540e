package extraction

import (
	"regexp"

	"github.com/dmitry/egrul-agent/internal/types"
)

// Diagnostics accumulates what an extraction pass could not find. It is
// returned alongside the record so extraction stays a pure function of its
// input text; callers decide whether and how to log it.
type Diagnostics struct {
	// Missing lists the structured fields that stayed empty.
	Missing []string
	// Notes records section-level misses (e.g. no founder section boundary).
	Notes []string
}

func (d *Diagnostics) note(msg string) {
	d.Notes = append(d.Notes, msg)
}

// Scalar field chains for full excerpt documents, ported across layout
// variants observed in excerpts from different years and regions.
var (
	docOGRNChain = NewChain(
		`(?i)ОГРН\s+(\d[\s\d]*\d)`,
		`(?i)(?:ОГРН|OGRN)[\s:]+(\d{13})`,
		`(?i)основной государственный регистрационный номер[\s:]+(\d{13})`,
	)

	docFullNameChain = NewChain(
		`(?is)настоящая выписка содержит сведения о юридическом лице\s+(.+?)(?:\s+полное наименование|\s+ОГРН)`,
		`(?is)полное наименование юридического лица\s+(.+?)\s+ОГРН`,
		`(?is)выписка.*?содержит.*?сведения.*?\s(.+?)\s+(?:ОГРН|полное)`,
		`(?is)Полное наименование на русском языке\s+(.+?)\s+\d+\s+ГРН`,
	)

	// docFullNameTop is the last-resort rule applied to the head of the
	// document when no full-text rule matched.
	docFullNameTop = regexp.MustCompile(`(?is)настоящая выписка содержит сведения о юридическом лице\s+(.*?)\s+(?:ОГРН|полное наименование)`)

	docINNChain = NewChain(
		`(?i)ИНН юридического лица\s+(\d{10})`,
		`(?i)ИНН\s+(\d{10})`,
		`(?i)ИНН[\s:]+(\d{10})`,
	)

	docAddressChain = NewChain(
		`(?is)Адрес(?:\s+юридического\s+лица)?\s+(\d{6},\s+.*?)\d+\s?ГРН`,
		`(?is)Адрес(?:\s+юридического\s+лица)?\s+(.*?)\d+\s?ГРН`,
	)

	docLocationChain = NewChain(
		`(?is)Место нахождения юридического лица\s+(.*?)\d+\s?ГРН`,
		`(?is)Место нахождения\s+(.*?)\d+\s?ГРН`,
	)

	addressHeader  = regexp.MustCompile(`^Адрес\s+юридического\s+лица\s+`)
	locationHeader = regexp.MustCompile(`^Место нахождения юридического лица\s+`)

	// grnMarker finds the registry-metadata tail the address patterns
	// over-capture: a record number followed by the ГРН abbreviation, with or
	// without the intervening space.
	grnMarker = regexp.MustCompile(`\d+\s?ГРН`)

	// docHeadSize bounds the top-of-document slice used by fallback rules.
	docHeadSize = 1000
)

// ExtractDocument produces a best-effort DocumentRecord from the extracted
// text of one excerpt PDF. Missing fields stay empty; the extractor never
// fails the record, and the diagnostics list what was not found.
func ExtractDocument(filename, rawText string) (*types.DocumentRecord, *Diagnostics) {
	text := Normalize(rawText)
	diags := &Diagnostics{}

	rec := &types.DocumentRecord{Filename: filename}

	if ogrn := docOGRNChain.First(text); ogrn != "" {
		rec.OGRN = stripSpaces(ogrn)
	}

	rec.FullName = docFullNameChain.First(text)
	if rec.FullName == "" {
		if m := docFullNameTop.FindStringSubmatch(headOf(text, docHeadSize)); len(m) > 1 {
			rec.FullName = collapseSpace(m[1])
		}
	}

	rec.INN = docINNChain.First(text)

	rec.Address = trimAtGRN(addressHeader.ReplaceAllString(docAddressChain.First(text), ""))
	rec.Location = trimAtGRN(locationHeader.ReplaceAllString(docLocationChain.First(text), ""))

	extractResponsiblePerson(rec, text, diags)
	extractFounder(rec, text, diags)

	diags.Missing = rec.MissingFields()
	return rec, diags
}

// trimAtGRN truncates a bounded match at the first following record-identifier
// marker, stripping the trailing registry metadata the primary pattern
// over-captures.
func trimAtGRN(s string) string {
	if s == "" {
		return ""
	}
	if loc := grnMarker.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return collapseSpace(s)
}

// headOf returns the first n bytes of text, backed off to a rune boundary.
func headOf(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && text[n]&0xC0 == 0x80 {
		n--
	}
	return text[:n]
}
