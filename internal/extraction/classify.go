package extraction

import "strings"

// entrepreneurMarker is the registration-number label used only for
// individual entrepreneurs; organizations carry the shorter ОГРН label.
const entrepreneurMarker = "ОГРНИП"

// IsEntrepreneur classifies one rendered result row. The presence of the
// entrepreneur registration-number marker is the sole disambiguation signal;
// it gates which extraction variant runs downstream.
func IsEntrepreneur(rowText string) bool {
	return strings.Contains(rowText, entrepreneurMarker)
}
