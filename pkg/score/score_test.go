package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawprint/pawprint/pkg/catalog"
)

func ptr(f float64) *float64 { return &f }

func TestScoreAdditive(t *testing.T) {
	s := New(Weights{
		Kcal:        100,
		Protein:     10,
		Fat:         10,
		Ingredients: 5,
		Image:       2,
		Trust:       map[string]int{"zooplus.de": 5, "chewy.com": 3},
	})

	tests := []struct {
		name      string
		candidate catalog.Candidate
		expected  int
	}{
		{
			name:      "empty record",
			candidate: catalog.Candidate{SourceID: "unknown.example"},
			expected:  0,
		},
		{
			name:      "kcal only",
			candidate: catalog.Candidate{SourceID: "unknown.example", KcalPer100g: ptr(365)},
			expected:  100,
		},
		{
			name: "full record from trusted source",
			candidate: catalog.Candidate{
				SourceID:          "zooplus.de",
				KcalPer100g:       ptr(365),
				ProteinPercent:    ptr(25),
				FatPercent:        ptr(14),
				IngredientsTokens: []string{"chicken", "rice"},
				ImageURL:          "https://img.example/p.jpg",
			},
			expected: 132,
		},
		{
			name: "trust uses domain portion of source id",
			candidate: catalog.Candidate{
				SourceID: "chewy.com/brand-pages",
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Score(&tt.candidate))
		})
	}
}

// Adding any non-null field, all else equal, must never decrease the
// score.
func TestScoreMonotonic(t *testing.T) {
	s := New(DefaultWeights())

	base := catalog.Candidate{SourceID: "a.example"}
	baseScore := s.Score(&base)

	additions := []struct {
		name  string
		apply func(*catalog.Candidate)
	}{
		{"kcal", func(c *catalog.Candidate) { c.KcalPer100g = ptr(300) }},
		{"protein", func(c *catalog.Candidate) { c.ProteinPercent = ptr(20) }},
		{"fat", func(c *catalog.Candidate) { c.FatPercent = ptr(10) }},
		{"ingredients", func(c *catalog.Candidate) { c.IngredientsTokens = []string{"beef"} }},
		{"image", func(c *catalog.Candidate) { c.ImageURL = "https://img.example/x.jpg" }},
	}

	for _, add := range additions {
		t.Run(add.name, func(t *testing.T) {
			enriched := base
			add.apply(&enriched)
			assert.GreaterOrEqual(t, s.Score(&enriched), baseScore)
		})
	}
}

func TestNegativeWeightsClamped(t *testing.T) {
	s := New(Weights{Kcal: -50, Trust: map[string]int{"bad.example": -10}})

	c := catalog.Candidate{SourceID: "bad.example", KcalPer100g: ptr(300)}
	assert.Equal(t, 0, s.Score(&c))
}

// Clamping happens on a copy; the weights passed in stay untouched so a
// shared config struct can build several scorers.
func TestNewLeavesTrustMapUntouched(t *testing.T) {
	trust := map[string]int{"bad.example": -10, "good.example": 5}
	New(Weights{Trust: trust})

	assert.Equal(t, -10, trust["bad.example"])
	assert.Equal(t, 5, trust["good.example"])
}

func TestScoreDeterministic(t *testing.T) {
	s := New(DefaultWeights())
	c := catalog.Candidate{
		SourceID:    "a.example",
		KcalPer100g: ptr(365),
		ImageURL:    "https://img.example/x.jpg",
	}
	first := s.Score(&c)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(&c))
	}
}
