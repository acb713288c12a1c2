package catalog

import (
	"sort"
	"time"

	"github.com/pawprint/pawprint/pkg/types"
)

// FieldOrigin records which source or process supplied a published
// field value.
type FieldOrigin struct {
	Source types.SourceID `json:"source" yaml:"source"`
	// Score is the quality score of the supplying record; zero for
	// override and derived values.
	Score int `json:"score,omitempty" yaml:"score,omitempty"`
	// Resolution is the precedence step that supplied the value.
	Resolution string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// SourceContribution is the audit entry for one record that contributed
// to a canonical product.
type SourceContribution struct {
	SourceID types.SourceID `json:"source_id" yaml:"source_id"`
	Fields   []string       `json:"fields" yaml:"fields"`
	Score    int            `json:"score" yaml:"score"`
}

// Product is the canonical merged view of all candidates sharing one
// product key, with overrides applied. Recomputed on every
// reconciliation pass; never hand-edited directly.
type Product struct {
	Key       string     `json:"key" yaml:"key"`
	BrandSlug string     `json:"brand_slug" yaml:"brand_slug"`
	BrandLine string     `json:"brand_line,omitempty" yaml:"brand_line,omitempty"`
	Name      string     `json:"name" yaml:"name"`
	NameSlug  string     `json:"name_slug" yaml:"name_slug"`
	Form      types.Form `json:"form" yaml:"form"`
	LifeStage string     `json:"life_stage,omitempty" yaml:"life_stage,omitempty"`

	Ingredients []string `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`

	KcalPer100g    *float64 `json:"kcal_per_100g,omitempty" yaml:"kcal_per_100g,omitempty"`
	ProteinPercent *float64 `json:"protein_percent,omitempty" yaml:"protein_percent,omitempty"`
	FatPercent     *float64 `json:"fat_percent,omitempty" yaml:"fat_percent,omitempty"`

	Price        *float64          `json:"price,omitempty" yaml:"price,omitempty"`
	PricePerUnit *float64          `json:"price_per_unit,omitempty" yaml:"price_per_unit,omitempty"`
	PriceBucket  types.PriceBucket `json:"price_bucket,omitempty" yaml:"price_bucket,omitempty"`

	PackSizes          []string `json:"pack_sizes,omitempty" yaml:"pack_sizes,omitempty"`
	AvailableCountries []string `json:"available_countries,omitempty" yaml:"available_countries,omitempty"`
	ImageURL           string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// BrandConfidence is low when no alias resolved the raw brand.
	BrandConfidence types.Confidence `json:"brand_confidence" yaml:"brand_confidence"`

	CompletenessGrade types.Grade          `json:"completeness_grade" yaml:"completeness_grade"`
	AllowlistStatus   types.AllowlistState `json:"allowlist_status" yaml:"allowlist_status"`

	// Provenance maps field name to the source or process that supplied
	// the published value.
	Provenance map[string]FieldOrigin `json:"provenance" yaml:"provenance"`

	// Sources lists every contributing record with the fields it
	// supplied and its quality score.
	Sources []SourceContribution `json:"sources" yaml:"sources"`

	FirstSeenAt time.Time `json:"first_seen_at" yaml:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at" yaml:"last_seen_at"`
}

// Products is an ordered collection of canonical products. Order is
// always by key so serialized output is reproducible.
type Products []Product

// Sort orders the collection by product key.
func (ps Products) Sort() {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Key < ps[j].Key })
}

// ByKey indexes the collection by product key.
func (ps Products) ByKey() map[string]Product {
	m := make(map[string]Product, len(ps))
	for _, p := range ps {
		m[p.Key] = p
	}
	return m
}

// Keys returns the sorted keys of the collection.
func (ps Products) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}
	sort.Strings(keys)
	return keys
}

// Brands returns the sorted set of brand slugs in the collection.
func (ps Products) Brands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ps {
		if !seen[p.BrandSlug] {
			seen[p.BrandSlug] = true
			out = append(out, p.BrandSlug)
		}
	}
	sort.Strings(out)
	return out
}
