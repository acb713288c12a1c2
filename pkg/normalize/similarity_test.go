package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"chicken", "chicken", 0},
		{"chicken", "chickens", 1},
		{"salmon", "salmons", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshtein(tt.s1, tt.s2), "%q vs %q", tt.s1, tt.s2)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{
			name: "identical names",
			a:    "Adult Chicken Rice",
			b:    "Adult Chicken Rice",
			min:  1, max: 1,
		},
		{
			name: "reordered tokens",
			a:    "Chicken Adult",
			b:    "Adult Chicken",
			min:  1, max: 1,
		},
		{
			name: "singular plural drift",
			a:    "Adult Chickens",
			b:    "Adult Chicken",
			min:  0.99, max: 1,
		},
		{
			name: "different products",
			a:    "Adult Chicken",
			b:    "Kitten Salmon Mousse",
			min:  0, max: 0.01,
		},
		{
			name: "partial overlap",
			a:    "Adult Chicken Rice",
			b:    "Adult Lamb Rice",
			min:  0.4, max: 0.6,
		},
		{
			name: "empty input",
			a:    "",
			b:    "Adult",
			min:  0, max: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "Adult Chicken & Rice", "Chicken Rice Adult Formula"
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-9)
}
