// Package catalog defines the data model of the reconciliation engine:
// raw candidate records as harvested, the canonical products the engine
// produces, and the curated tables (brand aliases, overrides, brand
// allowlist) layered on top. The package also loads these tables from
// their YAML representations; it never writes to the harvested feed.
package catalog

import (
	"sort"
	"time"

	"github.com/pawprint/pawprint/pkg/types"
)

// Candidate is one observation of a product from one source at one
// point in time. Owned by the harvesting subsystem; the reconciliation
// engine only reads it.
type Candidate struct {
	SourceID       types.SourceID `json:"source_id" yaml:"source_id"`
	SourceURL      string         `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	BrandRaw       string         `json:"brand_raw" yaml:"brand_raw"`
	ProductNameRaw string         `json:"product_name_raw" yaml:"product_name_raw"`
	FormRaw        string         `json:"form_raw,omitempty" yaml:"form_raw,omitempty"`
	LifeStageRaw   string         `json:"life_stage_raw,omitempty" yaml:"life_stage_raw,omitempty"`

	// IngredientsRaw is the unparsed ingredients statement;
	// IngredientsTokens is the harvester's tokenization of it.
	IngredientsRaw    string   `json:"ingredients_raw,omitempty" yaml:"ingredients_raw,omitempty"`
	IngredientsTokens []string `json:"ingredients_tokens,omitempty" yaml:"ingredients_tokens,omitempty"`

	// Nutrition fields are nullable: absent means the source did not
	// state them, never zero.
	KcalPer100g    *float64 `json:"kcal_per_100g,omitempty" yaml:"kcal_per_100g,omitempty"`
	ProteinPercent *float64 `json:"protein_percent,omitempty" yaml:"protein_percent,omitempty"`
	FatPercent     *float64 `json:"fat_percent,omitempty" yaml:"fat_percent,omitempty"`

	// Price is in the feed's currency units; PackWeightKg is the pack
	// weight the price refers to, when the harvester extracted one.
	Price        *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	PackWeightKg *float64 `json:"pack_weight_kg,omitempty" yaml:"pack_weight_kg,omitempty"`

	PackSizes          []string `json:"pack_sizes,omitempty" yaml:"pack_sizes,omitempty"`
	AvailableCountries []string `json:"available_countries,omitempty" yaml:"available_countries,omitempty"`
	ImageURL           string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	FirstSeenAt time.Time `json:"first_seen_at" yaml:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at" yaml:"last_seen_at"`
}

// Form maps the raw form text to a recognized form, or FormAny when the
// source stated none.
func (c *Candidate) Form() types.Form {
	switch c.FormRaw {
	case "dry", "kibble":
		return types.FormDry
	case "wet", "canned", "pouch":
		return types.FormWet
	case "raw", "frozen":
		return types.FormRaw
	case "freeze_dried", "freeze-dried":
		return types.FormFreeze
	default:
		return types.FormAny
	}
}

// Countries returns the candidate's available countries as a sorted,
// deduplicated set.
func (c *Candidate) Countries() []string {
	return NormalizeCountries(c.AvailableCountries)
}

// NormalizeCountries sorts and deduplicates a country code list.
func NormalizeCountries(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
