package extraction

import "regexp"

// datePattern is the only accepted date shape in registry excerpts.
var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)

// Chain is an ordered list of fallback pattern rules for one field. Rules are
// evaluated in sequence and the first submatch wins; this encodes "prefer the
// most specific phrasing, fall back to looser phrasing" for documents whose
// layout varies across years and regions.
type Chain []*regexp.Regexp

// NewChain compiles the given patterns in order. Patterns are expected to
// carry their own flags (typically `(?is)`) and exactly one capture group.
func NewChain(patterns ...string) Chain {
	c := make(Chain, 0, len(patterns))
	for _, p := range patterns {
		c = append(c, regexp.MustCompile(p))
	}
	return c
}

// First returns the first rule's capture over text, whitespace-collapsed, or
// "" when no rule matches. A miss is not an error.
func (c Chain) First(text string) string {
	for _, re := range c {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return collapseSpace(m[1])
		}
	}
	return ""
}

// FirstDate behaves like First but additionally requires the capture to be a
// well-formed DD.MM.YYYY date. A rule whose capture fails validation does not
// stop the chain.
func (c Chain) FirstDate(text string) string {
	for _, re := range c {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			candidate := collapseSpace(m[1])
			if datePattern.MatchString(candidate) {
				return candidate
			}
		}
	}
	return ""
}
