package extraction

import (
	"regexp"
	"strings"

	"github.com/dmitry/egrul-agent/internal/types"
)

// Result-row field chains. Result rows are short one-line renderings, so the
// chains here are smaller than the document ones but follow the same
// first-match-wins contract.
var (
	rowOGRNChain = NewChain(
		`(?i)ОГРН[\s:]+(\d[\s\d]*\d)`,
		`(?i)основной государственный регистрационный номер[\s:]+(\d{13})`,
	)

	rowINNChain = NewChain(
		`(?i)ИНН[\s:]+(\d{10})`,
	)

	// Role titles ordered most specific first so the compound titles are not
	// shadowed by the bare ДИРЕКТОР rule. The capture runs to the next comma.
	rowHeadChain = NewChain(
		`(?i)ГЕНЕРАЛЬНЫЙ ДИРЕКТОР[\s:]+([^,]+)`,
		`(?i)ИСПОЛНИТЕЛЬНЫЙ ДИРЕКТОР[\s:]+([^,]+)`,
		`(?i)УПРАВЛЯЮЩИЙ ДИРЕКТОР[\s:]+([^,]+)`,
		`(?i)ДИРЕКТОР[\s:]+([^,]+)`,
		`(?i)РУКОВОДИТЕЛЬ[\s:]+([^,]+)`,
		`(?i)ПРЕЗИДЕНТ[\s:]+([^,]+)`,
		`(?i)ПРЕДСЕДАТЕЛЬ[\s:]+([^,]+)`,
	)

	// cessationMarker decides the liquidated status; the date after it is
	// optional and only kept when well-formed.
	cessationMarker = "Дата прекращения деятельности"
	cessationDate   = regexp.MustCompile(`Дата прекращения деятельности\D*(\d{2}\.\d{2}\.\d{4})`)
)

// ExtractOrganization builds an OrganizationRecord from one rendered result
// row. Missing fields stay empty; the function never fails.
func ExtractOrganization(query, entityName, rowText string) *types.OrganizationRecord {
	text := Normalize(rowText)

	rec := &types.OrganizationRecord{
		SearchQuery: query,
		EntityName:  entityName,
		FullText:    text,
	}

	// Organizational result rows consistently lead with the region name, so
	// the span before the first comma is taken verbatim and never falls
	// through to another rule.
	if idx := strings.Index(text, ","); idx > 0 {
		rec.Region = strings.TrimSpace(text[:idx])
	} else {
		rec.Region = text
	}

	if ogrn := rowOGRNChain.First(text); ogrn != "" {
		rec.OGRN = stripSpaces(ogrn)
	}
	rec.INN = rowINNChain.First(text)

	if head := rowHeadChain.First(text); head != "" && !containsDigit(head) {
		rec.HeadName = head
	}

	if strings.Contains(text, cessationMarker) {
		rec.Status = types.StatusLiquidated
		if m := cessationDate.FindStringSubmatch(text); len(m) > 1 {
			rec.StopDate = m[1]
		}
	}

	return rec
}

// ExtractEntrepreneur builds the undifferentiated entrepreneur variant. The
// source row format for entrepreneurs is not decomposed further.
func ExtractEntrepreneur(query, entityName, rowText string) *types.EntrepreneurRecord {
	return &types.EntrepreneurRecord{
		SearchQuery: query,
		EntityName:  entityName,
		FullText:    Normalize(rowText),
	}
}
