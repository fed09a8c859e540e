package extraction

import (
	"regexp"
	"strings"

	"github.com/dmitry/egrul-agent/internal/types"
)

// Section isolation: an outer boundary search produces a bounded substring,
// then the section's own rule chains run over it in isolation. This keeps a
// person's attributes from colliding with similarly-shaped data elsewhere in
// the document.

var (
	// Responsible-person section boundaries. The role-title variant covers
	// excerpts that omit the canonical section heading. The closing boundary
	// is the following section's title, or end-of-text.
	respSectionChain = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Сведения о лице, имеющем право без доверенности действовать от имени юридического\s+лица(.*?)(?:Сведения об участниках|$)`),
		regexp.MustCompile(`(?is)Сведения о лице, имеющем право без доверенности(.*?)(?:Сведения об участниках|$)`),
		regexp.MustCompile(`(?is)(?:Руководитель|Директор|Генеральный директор|Исполнительный директор|Управляющий директор|` +
			`Президент|Вице-президент|Министр|Заместитель министра|Первый заместитель министра|` +
			`Губернатор|Мэр|Глава администрации|Председатель|Начальник|Заведующий)(.*?)(?:Сведения об участниках|$)`),
	}

	// Name heuristics, in empirically tuned trial order. The header-triple
	// rule handles the tabular "Фамилия Имя Отчество" layout; the column rule
	// handles the variant where the surname sits alone next to the header;
	// the INN-adjacent rule catches the layout where the name row immediately
	// precedes the person's INN (and captures that INN as a side effect); the
	// generic triple is the last resort.
	respNameHeaderTriple = regexp.MustCompile(`(?i)Фамилия\s+Имя\s+Отчество\s+([А-ЯЁ]+)\s+([А-ЯЁ]+)\s+([А-ЯЁ]+)`)
	respNameColumn       = regexp.MustCompile(`(?i)Фамилия\s+Имя\s+Отчество\s*([А-ЯЁ]+)`)
	respNamePair         = regexp.MustCompile(`(?i)([А-ЯЁ]+)\s+([А-ЯЁ]+)`)
	respNameBeforeINN    = regexp.MustCompile(`(?i)([А-ЯЁ]+)\s+([А-ЯЁ]+)\s+([А-ЯЁ]+)\s+ИНН\D*?(\d+)`)
	respNameGeneric      = regexp.MustCompile(`(?i)([А-ЯЁ][А-ЯЁа-яё]+)\s+([А-ЯЁ][А-ЯЁа-яё]+)\s+([А-ЯЁ][А-ЯЁа-яё]+)`)

	respINNChain = NewChain(
		`(?i)ИНН\s+(\d+)`,
		`(?i)ИНН[\s:]+(\d+)`,
	)

	respPositionChain = NewChain(
		`(?is)Должность\s+(.+?)\d+\s+ГРН`,
		`(?is)Должность[\s:]+(.+?)(?:\s+\d+\s+|\s+ИНН|\s+Сведения)`,
		`(?is)(?:Роль|Position)[\s:]+(.+?)(?:\d+\s+ГРН|\s+ИНН)`,
	)

	respApprovalDateChain = NewChain(
		`(?is)ГРН и дата внесения в ЕГРЮЛ сведений о\s+данном лице\s+\d+\s+(\d{2}\.\d{2}\.\d{4})`,
		`(?is)внесения в ЕГРЮЛ записи.+?(\d{2}\.\d{2}\.\d{4})`,
		`(?i)Дата внесения в ЕГРЮЛ[\s:]+(\d{2}\.\d{2}\.\d{4})`,
	)
)

// isolateSection returns the first boundary rule's bounded substring, or ""
// when no boundary matches anywhere in the text.
func isolateSection(text string, boundaries []*regexp.Regexp) string {
	for _, re := range boundaries {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// validPersonName rejects candidates that pulled in an adjacent number or the
// table header itself instead of a name.
func validPersonName(name string) bool {
	return name != "" && !containsDigit(name) && !strings.Contains(name, "Фамилия")
}

func extractResponsiblePerson(rec *types.DocumentRecord, text string, diags *Diagnostics) {
	section := isolateSection(text, respSectionChain)
	if section == "" {
		diags.note("responsible-person section boundary not found")
		return
	}

	if m := respNameHeaderTriple.FindStringSubmatch(section); len(m) > 3 {
		rec.ResponsiblePersonName = m[1] + " " + m[2] + " " + m[3]
	}
	if !validPersonName(rec.ResponsiblePersonName) {
		// Column layout: surname next to the header, given name and
		// patronymic further along.
		if m := respNameColumn.FindStringSubmatchIndex(section); m != nil {
			lastName := section[m[2]:m[3]]
			rest := section[m[1]:]
			if pair := respNamePair.FindStringSubmatch(rest); len(pair) > 2 {
				rec.ResponsiblePersonName = lastName + " " + pair[1] + " " + pair[2]
			}
		}
	}
	if !validPersonName(rec.ResponsiblePersonName) {
		if m := respNameBeforeINN.FindStringSubmatch(section); len(m) > 4 {
			rec.ResponsiblePersonName = m[1] + " " + m[2] + " " + m[3]
			rec.ResponsiblePersonINN = m[4]
		}
	}
	if !validPersonName(rec.ResponsiblePersonName) {
		if m := respNameGeneric.FindStringSubmatch(section); len(m) > 3 {
			rec.ResponsiblePersonName = m[1] + " " + m[2] + " " + m[3]
		}
	}
	if !validPersonName(rec.ResponsiblePersonName) {
		// A rejected candidate is a miss, not an error.
		rec.ResponsiblePersonName = ""
	}

	if rec.ResponsiblePersonINN == "" {
		rec.ResponsiblePersonINN = respINNChain.First(section)
	}
	rec.ResponsiblePersonPosition = respPositionChain.First(section)
	rec.ResponsiblePersonApprovalDate = respApprovalDateChain.FirstDate(section)
}

var (
	founderSectionChain = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Сведения об участниках\s*/\s*учредителях юридического лица(.*?)(?:Сведения о записях|$)`),
		regexp.MustCompile(`(?is)Сведения об участниках\s*/\s*учредителях(.*?)(?:Сведения о записях|$)`),
		regexp.MustCompile(`(?is)Сведения об учредителях юридического лица(.*?)(?:Сведения о записях|$)`),
		regexp.MustCompile(`(?is)Сведения об учредителях(.*?)(?:Сведения о записях|$)`),
	}

	founderNameChain = NewChain(
		`(?is)(?:Участник\s*/\s*учредитель|Учредитель)\s+([^0-9]{5,}?)\s*(?:\d+\s?ГРН|$)`,
		`(?is)(?:Полное наименование|Наименование)\s+([^0-9]{5,}?)\s*(?:\d+\s?ГРН|$)`,
		`(?is)([А-ЯЁ][^0-9]{15,}?)\s*(?:ИНН|ОГРН)`,
	)

	founderNameHeader = regexp.MustCompile(`^(?:Участник\s*/\s*учредитель|Учредитель|Полное наименование|Наименование)\s+`)

	founderOGRNChain = NewChain(
		`(?i)ОГРН\s+(\d[\s\d]*\d)`,
		`(?i)(?:ОГРН|OGRN)[\s:]+(\d{13})`,
		`(?is)Участник[^0-9]*?ОГРН\D*?(\d{13})`,
		`(?i)ОГРН\D*?(\d(?:\s\d){12})`,
	)

	founderINNChain = NewChain(
		`(?i)(?:ИНН|INN)[\s:]+(\d{10})`,
		`(?i)ИНН\s+(\d{10})`,
		`(?is)Участник[^0-9]*?ИНН\D*?(\d{10})`,
	)

	founderDateChain = NewChain(
		`(?is)ГРН и дата внесения в ЕГРЮЛ сведений о\s+данном лице\s+\d+\s+(\d{2}\.\d{2}\.\d{4})`,
		`(?is)(?:создание|регистрация)\D*?(\d{2}\.\d{2}\.\d{4})`,
		`(?is)внесения в ЕГРЮЛ записи\D*?(\d{2}\.\d{2}\.\d{4})`,
		`(\d{2}\.\d{2}\.\d{4})`,
	)

	// numberedFounderEntry matches the alternative numbered-list layout:
	// "1 Участник / учредитель NAME ...".
	numberedFounderEntry = regexp.MustCompile(`(?i)\d+\s+Участник\s*/\s*учредитель\s+([^0-9]+)`)
	founderOGRNAfter     = regexp.MustCompile(`(?i)ОГРН\D*?(\d{13})`)
	founderINNAfter      = regexp.MustCompile(`(?i)ИНН\D*?(\d{10})`)

	// numberedEntryWindow bounds how far past a numbered entry the secondary
	// pass looks for that entry's own registry numbers.
	numberedEntryWindow = 500
)

func extractFounder(rec *types.DocumentRecord, text string, diags *Diagnostics) {
	section := isolateSection(text, founderSectionChain)
	if section == "" {
		diags.note("founder section boundary not found")
		return
	}

	if name := founderNameChain.First(section); name != "" {
		rec.FounderFullName = collapseSpace(founderNameHeader.ReplaceAllString(name, ""))
	}
	if ogrn := founderOGRNChain.First(section); ogrn != "" {
		rec.FounderOGRN = stripSpaces(ogrn)
	}
	rec.FounderINN = founderINNChain.First(section)
	rec.FounderDate = founderDateChain.FirstDate(section)

	// Secondary pass for the numbered-list layout: founder data appears in at
	// least two materially different shapes across document variants, so when
	// the primary chains leave gaps we retry with the numbered-entry rule and
	// fill only the still-missing fields.
	if rec.FounderFullName == "" || rec.FounderOGRN == "" || rec.FounderINN == "" {
		if m := numberedFounderEntry.FindStringSubmatchIndex(section); m != nil {
			if rec.FounderFullName == "" {
				rec.FounderFullName = collapseSpace(section[m[2]:m[3]])
			}
			after := headOf(section[m[1]:], numberedEntryWindow)
			if rec.FounderOGRN == "" {
				if g := founderOGRNAfter.FindStringSubmatch(after); len(g) > 1 {
					rec.FounderOGRN = g[1]
				}
			}
			if rec.FounderINN == "" {
				if g := founderINNAfter.FindStringSubmatch(after); len(g) > 1 {
					rec.FounderINN = g[1]
				}
			}
		}
	}
}
