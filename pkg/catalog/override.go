package catalog

import (
	"time"

	"github.com/pawprint/pawprint/pkg/types"
)

// Override is a manually authored correction applied on top of merged
// output. Non-nil fields replace merged values; merged values are never
// blanked unless the field name appears in Cleared. An override keyed
// by brand slug applies to every product of that brand.
type Override struct {
	ProductKey string `json:"product_key,omitempty" yaml:"product_key,omitempty"`
	BrandSlug  string `json:"brand_slug,omitempty" yaml:"brand_slug,omitempty"`

	Name           *string  `json:"name,omitempty" yaml:"name,omitempty"`
	BrandLine      *string  `json:"brand_line,omitempty" yaml:"brand_line,omitempty"`
	LifeStage      *string  `json:"life_stage,omitempty" yaml:"life_stage,omitempty"`
	Ingredients    []string `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	KcalPer100g    *float64 `json:"kcal_per_100g,omitempty" yaml:"kcal_per_100g,omitempty"`
	ProteinPercent *float64 `json:"protein_percent,omitempty" yaml:"protein_percent,omitempty"`
	FatPercent     *float64 `json:"fat_percent,omitempty" yaml:"fat_percent,omitempty"`
	ImageURL       *string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// Cleared lists field names whose merged values this override
	// explicitly blanks.
	Cleared []string `json:"cleared,omitempty" yaml:"cleared,omitempty"`

	Reason    string     `json:"reason" yaml:"reason"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" yaml:"revoked_at,omitempty"`
}

// Active reports whether the override should be applied: not revoked as
// of the given watermark, and created at or before it. A zero watermark
// means no bound, matching the candidate filter: every non-revoked
// override applies.
func (o *Override) Active(watermark time.Time) bool {
	if watermark.IsZero() {
		return o.RevokedAt == nil
	}
	if o.CreatedAt.After(watermark) {
		return false
	}
	return o.RevokedAt == nil || o.RevokedAt.After(watermark)
}

// Clears reports whether the override explicitly blanks the named field.
func (o *Override) Clears(field string) bool {
	for _, f := range o.Cleared {
		if f == field {
			return true
		}
	}
	return false
}

// Overrides is the curated override table.
type Overrides struct {
	Version string     `json:"version" yaml:"version"`
	Entries []Override `json:"entries" yaml:"entries"`
}

// ForKey returns the active overrides targeting the given product key,
// in table order. Overrides are serialized single-writer upstream, so
// table order is a stable application order.
func (os *Overrides) ForKey(key string, watermark time.Time) []Override {
	var out []Override
	for _, o := range os.Entries {
		if o.ProductKey == key && o.Active(watermark) {
			out = append(out, o)
		}
	}
	return out
}

// ForBrand returns the active overrides targeting the given brand slug.
func (os *Overrides) ForBrand(slug string, watermark time.Time) []Override {
	var out []Override
	for _, o := range os.Entries {
		if o.ProductKey == "" && o.BrandSlug == slug && o.Active(watermark) {
			out = append(out, o)
		}
	}
	return out
}

// Allowlist is the versioned promotion table of brands.
type Allowlist struct {
	Version string                          `json:"version" yaml:"version"`
	Brands  map[string]types.AllowlistState `json:"brands" yaml:"brands"`
}

// State returns the allowlist state for a brand slug, defaulting to
// PENDING for brands the table does not mention.
func (a *Allowlist) State(brandSlug string) types.AllowlistState {
	if a == nil || a.Brands == nil {
		return types.AllowlistPending
	}
	if state, ok := a.Brands[brandSlug]; ok {
		return state
	}
	return types.AllowlistPending
}
