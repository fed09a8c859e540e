package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Collapses whitespace runs", "ОГРН   1027700132195\n\nИНН\t7707083893", "ОГРН 1027700132195 ИНН 7707083893"},
		{"Replaces non-breaking spaces", "ОГРН 1027700132195", "ОГРН 1027700132195"},
		{"Trims surrounding whitespace", "  текст выписки  ", "текст выписки"},
		{"Empty string", "", ""},
		{"Whitespace only", " \n\t ", ""},
		{"Already normalized", "г. Москва, ул. Вавилова", "г. Москва, ул. Вавилова"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := "Сведения   о\nюридическом\t\tлице"
	once := Normalize(input)
	assert.Equal(t, once, Normalize(once), "normalizing already-normalized text should change nothing")
}

func TestStripSpaces(t *testing.T) {
	assert.Equal(t, "1027700132195", stripSpaces("1 0 2 7 7 0 0 1 3 2 1 9 5"))
	assert.Equal(t, "1027700132195", stripSpaces("1027700132195"))
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, containsDigit("ИВАНОВ 123"))
	assert.False(t, containsDigit("ИВАНОВ ИВАН ИВАНОВИЧ"))
	assert.False(t, containsDigit(""))
}
