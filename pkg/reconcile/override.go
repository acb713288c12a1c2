package reconcile

import (
	"time"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/types"
)

// OverrideConflict records an override that targeted a product key
// absent from the merged output. The override is skipped, never applied
// to a near-matching key.
type OverrideConflict struct {
	ProductKey string `json:"product_key" yaml:"product_key"`
	Reason     string `json:"reason" yaml:"reason"`
}

// applyOverrides layers the active override table on top of the merged
// products. Brand-scoped overrides apply first, then key-scoped ones,
// so a key-scoped correction always has the last word. Returns the
// conflicts for key-scoped overrides whose target key does not exist.
func applyOverrides(products catalog.Products, overrides *catalog.Overrides, watermark time.Time) []OverrideConflict {
	if overrides == nil || len(overrides.Entries) == 0 {
		return nil
	}

	byKey := make(map[string]*catalog.Product, len(products))
	for i := range products {
		byKey[products[i].Key] = &products[i]
	}

	for i := range products {
		p := &products[i]
		for _, o := range overrides.ForBrand(p.BrandSlug, watermark) {
			applyOverride(p, &o)
		}
	}

	var conflicts []OverrideConflict
	seen := make(map[string]bool)
	for _, o := range overrides.Entries {
		if o.ProductKey == "" || !o.Active(watermark) {
			continue
		}
		p, ok := byKey[o.ProductKey]
		if !ok {
			if !seen[o.ProductKey] {
				seen[o.ProductKey] = true
				conflicts = append(conflicts, OverrideConflict{
					ProductKey: o.ProductKey,
					Reason:     "no merged product with this key",
				})
			}
			continue
		}
		applyOverride(p, &o)
	}
	return conflicts
}

// applyOverride mutates a single product. Non-nil override fields win;
// fields listed in Cleared are blanked. Either way the field's
// provenance flips to the override source.
func applyOverride(p *catalog.Product, o *catalog.Override) {
	origin := catalog.FieldOrigin{Source: types.OverrideSource, Resolution: ResolutionOverride.String()}

	if o.Name != nil {
		p.Name = *o.Name
		p.Provenance["name"] = origin
	}
	if o.BrandLine != nil {
		p.BrandLine = *o.BrandLine
		p.Provenance["brand_line"] = origin
	}
	if o.LifeStage != nil {
		p.LifeStage = *o.LifeStage
		p.Provenance["life_stage"] = origin
	}
	if len(o.Ingredients) > 0 {
		p.Ingredients = append([]string(nil), o.Ingredients...)
		p.Provenance["ingredients"] = origin
	}
	if o.KcalPer100g != nil {
		p.KcalPer100g = copyFloat(o.KcalPer100g)
		p.Provenance["kcal_per_100g"] = origin
	}
	if o.ProteinPercent != nil {
		p.ProteinPercent = copyFloat(o.ProteinPercent)
		p.Provenance["protein_percent"] = origin
	}
	if o.FatPercent != nil {
		p.FatPercent = copyFloat(o.FatPercent)
		p.Provenance["fat_percent"] = origin
	}
	if o.ImageURL != nil {
		p.ImageURL = *o.ImageURL
		p.Provenance["image_url"] = origin
	}

	for _, field := range o.Cleared {
		clearField(p, field)
		p.Provenance[field] = origin
	}
}

func clearField(p *catalog.Product, field string) {
	switch field {
	case "brand_line":
		p.BrandLine = ""
	case "life_stage":
		p.LifeStage = ""
	case "ingredients":
		p.Ingredients = nil
	case "kcal_per_100g":
		p.KcalPer100g = nil
	case "protein_percent":
		p.ProteinPercent = nil
	case "fat_percent":
		p.FatPercent = nil
	case "image_url":
		p.ImageURL = ""
	}
}
