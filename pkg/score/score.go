// Package score assigns a reproducible quality score to each candidate
// record. The score is a pure function of the record's own fields:
// additive field-presence weights plus a per-domain source trust bonus.
// All weights are non-negative, so adding data never lowers a score and
// winner selection stays order-independent.
package score

import (
	"github.com/pawprint/pawprint/pkg/catalog"
)

// Weights configures the additive scoring scheme. The defaults are the
// canonical scheme for the catalog; a run must use one scheme
// throughout so scores are comparable within it.
type Weights struct {
	// Field-presence weights.
	Kcal        int `json:"kcal" yaml:"kcal" mapstructure:"kcal"`
	Protein     int `json:"protein" yaml:"protein" mapstructure:"protein"`
	Fat         int `json:"fat" yaml:"fat" mapstructure:"fat"`
	Ingredients int `json:"ingredients" yaml:"ingredients" mapstructure:"ingredients"`
	Image       int `json:"image" yaml:"image" mapstructure:"image"`

	// Trust maps source domains to a trust bonus. Domains not listed
	// score zero bonus.
	Trust map[string]int `json:"trust" yaml:"trust" mapstructure:"trust"`
}

// DefaultWeights returns the documented default scheme: energy density
// dominates, macros help, ingredients and images are minor signals.
func DefaultWeights() Weights {
	return Weights{
		Kcal:        100,
		Protein:     10,
		Fat:         10,
		Ingredients: 5,
		Image:       2,
		Trust:       map[string]int{},
	}
}

// Scorer computes quality scores with a fixed weight scheme.
type Scorer struct {
	weights Weights
}

// New creates a Scorer. Negative weights are clamped to zero to keep
// the monotonicity guarantee.
func New(weights Weights) *Scorer {
	if weights.Kcal < 0 {
		weights.Kcal = 0
	}
	if weights.Protein < 0 {
		weights.Protein = 0
	}
	if weights.Fat < 0 {
		weights.Fat = 0
	}
	if weights.Ingredients < 0 {
		weights.Ingredients = 0
	}
	if weights.Image < 0 {
		weights.Image = 0
	}
	// Clamp into a copy; the caller's map is not ours to mutate.
	trust := make(map[string]int, len(weights.Trust))
	for domain, bonus := range weights.Trust {
		if bonus < 0 {
			bonus = 0
		}
		trust[domain] = bonus
	}
	weights.Trust = trust
	return &Scorer{weights: weights}
}

// Score computes the quality score for one candidate. Pure: it never
// considers other records in the group.
func (s *Scorer) Score(c *catalog.Candidate) int {
	total := 0
	if c.KcalPer100g != nil {
		total += s.weights.Kcal
	}
	if c.ProteinPercent != nil {
		total += s.weights.Protein
	}
	if c.FatPercent != nil {
		total += s.weights.Fat
	}
	if len(c.IngredientsTokens) > 0 {
		total += s.weights.Ingredients
	}
	if c.ImageURL != "" {
		total += s.weights.Image
	}
	total += s.weights.Trust[c.SourceID.Domain()]
	return total
}

// Weights returns the scheme in use, for stamping into run reports.
func (s *Scorer) Weights() Weights {
	return s.weights
}
