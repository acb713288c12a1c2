// Package differ computes changesets between two published product
// sets, so a reconciliation run can report what it would change before
// the staged snapshot is swapped in.
package differ

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/pawprint/pawprint/pkg/catalog"
)

// Changeset describes the differences between a base product set and a
// newly reconciled one.
type Changeset struct {
	Added   []catalog.Product `json:"added" yaml:"added"`
	Updated []ProductChange   `json:"updated" yaml:"updated"`
	Removed []catalog.Product `json:"removed" yaml:"removed"`
}

// ProductChange pairs the old and new versions of a changed product.
type ProductChange struct {
	Key    string          `json:"key" yaml:"key"`
	Before catalog.Product `json:"before" yaml:"before"`
	After  catalog.Product `json:"after" yaml:"after"`
	Fields []string        `json:"fields" yaml:"fields"`
}

// HasChanges reports whether the changeset contains any change.
func (c *Changeset) HasChanges() bool {
	return c != nil && (len(c.Added) > 0 || len(c.Updated) > 0 || len(c.Removed) > 0)
}

// Summary returns a one-line human summary.
func (c *Changeset) Summary() string {
	if !c.HasChanges() {
		return "no changes"
	}
	return fmt.Sprintf("%d added, %d updated, %d removed", len(c.Added), len(c.Updated), len(c.Removed))
}

// Products computes the changeset between two product sets, keyed by
// product key. Output slices are sorted by key for reproducible
// reports.
func Products(base, next catalog.Products) *Changeset {
	baseByKey := base.ByKey()
	nextByKey := next.ByKey()

	cs := &Changeset{}

	for _, p := range next {
		old, exists := baseByKey[p.Key]
		if !exists {
			cs.Added = append(cs.Added, p)
			continue
		}
		if fields := changedFields(old, p); len(fields) > 0 {
			cs.Updated = append(cs.Updated, ProductChange{
				Key:    p.Key,
				Before: old,
				After:  p,
				Fields: fields,
			})
		}
	}

	for _, p := range base {
		if _, exists := nextByKey[p.Key]; !exists {
			cs.Removed = append(cs.Removed, p)
		}
	}

	sort.Slice(cs.Added, func(i, j int) bool { return cs.Added[i].Key < cs.Added[j].Key })
	sort.Slice(cs.Updated, func(i, j int) bool { return cs.Updated[i].Key < cs.Updated[j].Key })
	sort.Slice(cs.Removed, func(i, j int) bool { return cs.Removed[i].Key < cs.Removed[j].Key })

	return cs
}

// changedFields lists the published fields that differ between two
// versions of a product. Provenance and source bookkeeping are not
// compared; only consumer-visible values are.
func changedFields(before, after catalog.Product) []string {
	var fields []string

	compare := []struct {
		name string
		eq   bool
	}{
		{"brand_slug", before.BrandSlug == after.BrandSlug},
		{"brand_line", before.BrandLine == after.BrandLine},
		{"name", before.Name == after.Name},
		{"form", before.Form == after.Form},
		{"life_stage", before.LifeStage == after.LifeStage},
		{"ingredients", reflect.DeepEqual(before.Ingredients, after.Ingredients)},
		{"kcal_per_100g", floatPtrEqual(before.KcalPer100g, after.KcalPer100g)},
		{"protein_percent", floatPtrEqual(before.ProteinPercent, after.ProteinPercent)},
		{"fat_percent", floatPtrEqual(before.FatPercent, after.FatPercent)},
		{"price", floatPtrEqual(before.Price, after.Price)},
		{"price_per_unit", floatPtrEqual(before.PricePerUnit, after.PricePerUnit)},
		{"price_bucket", before.PriceBucket == after.PriceBucket},
		{"pack_sizes", reflect.DeepEqual(before.PackSizes, after.PackSizes)},
		{"available_countries", reflect.DeepEqual(before.AvailableCountries, after.AvailableCountries)},
		{"image_url", before.ImageURL == after.ImageURL},
		{"completeness_grade", before.CompletenessGrade == after.CompletenessGrade},
		{"allowlist_status", before.AllowlistStatus == after.AllowlistStatus},
	}

	for _, c := range compare {
		if !c.eq {
			fields = append(fields, c.name)
		}
	}
	return fields
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
