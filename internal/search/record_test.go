package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsISBN(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"ISBN-13", "9788966263141", true},
		{"ISBN-13 with hyphens", "978-89-6626-314-1", true},
		{"ISBN-10", "0134190440", true},
		{"ISBN-10 with X check digit", "080442957X", true},
		{"too short", "12345", false},
		{"provider-native id", "zyTCAlFPjgYC", false},
		{"empty", "", false},
		{"letters in digits", "97889662631ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isISBN(tt.id))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "the go programming language", normalizeText("  The  GO\tProgramming   Language "))
	assert.Equal(t, "", normalizeText("   "))
}
