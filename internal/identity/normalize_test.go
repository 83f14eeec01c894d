package identity

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
		{
			name:     "Already normalized",
			input:    "aaron judge",
			expected: "aaron judge",
		},
		{
			name:     "Accented characters",
			input:    "José Ramírez",
			expected: "jose ramirez",
		},
		{
			name:     "Junior suffix with period",
			input:    "Ronald Acuña Jr.",
			expected: "ronald acuna",
		},
		{
			name:     "Junior suffix without period",
			input:    "Fernando Tatis Jr",
			expected: "fernando tatis",
		},
		{
			name:     "Roman numeral suffix",
			input:    "Luis García III",
			expected: "luis garcia",
		},
		{
			name:     "Suffix only stripped at end",
			input:    "J.T. Realmuto",
			expected: "jt realmuto",
		},
		{
			name:     "Hyphenated surname preserved",
			input:    "Isiah Kiner-Falefa",
			expected: "isiah kiner-falefa",
		},
		{
			name:     "Letters without decompositions kept",
			input:    "Søren Kjærgaard",
			expected: "søren kjærgaard",
		},
		{
			name:     "Extra whitespace collapsed",
			input:    "  Shohei   Ohtani  ",
			expected: "shohei ohtani",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	names := []string{
		"José Ramírez Jr.",
		"Ronald Acuña Jr.",
		"Isiah Kiner-Falefa",
		"J.T. Realmuto",
		"  Mixed   Case Ñame III ",
	}
	for _, name := range names {
		once := Normalize(name)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", name)
	}
}

func TestNormalizeAccentAndSuffixEquivalence(t *testing.T) {
	assert.Equal(t, Normalize("jose ramirez"), Normalize("José Ramírez Jr."))
	assert.Equal(t, Normalize("ronald acuna"), Normalize("Ronald Acuña Jr."))
}

func TestNameParts(t *testing.T) {
	tests := []struct {
		input         string
		expectedFirst string
		expectedLast  string
	}{
		{"Aaron Judge", "aaron", "judge"},
		{"José Ramírez Jr.", "jose", "ramirez"},
		{"Ichiro", "", "ichiro"},
		{"Jacob Tyler deGrom", "jacob", "degrom"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first, last := NameParts(tt.input)
			assert.Equal(t, tt.expectedFirst, first)
			assert.Equal(t, tt.expectedLast, last)
		})
	}
}
