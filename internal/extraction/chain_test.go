package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainFirstMatchWins(t *testing.T) {
	chain := NewChain(
		`specific:(\d+)`,
		`loose\D*(\d+)`,
	)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"First rule wins when both match", "loose 111 specific:222", "222"},
		{"Falls back to second rule", "loose 333", "333"},
		{"No rule matches", "nothing here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chain.First(tt.input))
		})
	}
}

func TestChainFirstCollapsesCapture(t *testing.T) {
	chain := NewChain(`(?s)name\s+(.+?)\s+end`)
	assert.Equal(t, "ООО РОМАШКА", chain.First("name ООО\n\nРОМАШКА end"))
}

func TestChainFirstDate(t *testing.T) {
	chain := NewChain(
		`date one\s+(\S+)`,
		`date two\s+(\S+)`,
	)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Valid date in first rule", "date one 15.03.2019", "15.03.2019"},
		{"Invalid capture does not stop the chain", "date one garbage date two 01.12.2020", "01.12.2020"},
		{"No valid date anywhere", "date one 2019-03-15", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chain.FirstDate(tt.input))
		})
	}
}
