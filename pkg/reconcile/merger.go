package reconcile

import (
	"math"
	"sort"
	"strings"

	"github.com/pawprint/pawprint/pkg/brand"
	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/types"
)

// scored is a candidate record after canonicalization, keying, and
// scoring; the unit the merge engine works on.
type scored struct {
	Candidate catalog.Candidate
	Brand     brand.Result
	Key       string
	Score     int
}

// sortGroup orders a key group by the winner tie-break: highest quality
// score, then most recent last-seen, then lexicographically smallest
// source ID. The final tie-break is content-derived, so the order never
// depends on arrival order.
func sortGroup(group []scored) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Candidate.LastSeenAt.Equal(b.Candidate.LastSeenAt) {
			return a.Candidate.LastSeenAt.After(b.Candidate.LastSeenAt)
		}
		return a.Candidate.SourceID < b.Candidate.SourceID
	})
}

// PriceBuckets holds the thresholds classifying price per unit.
type PriceBuckets struct {
	// Low is the exclusive upper bound of the low bucket.
	Low float64 `json:"low" yaml:"low" mapstructure:"low"`
	// High is the exclusive lower bound of the high bucket; values in
	// [Low, High] are mid.
	High float64 `json:"high" yaml:"high" mapstructure:"high"`
}

// DefaultPriceBuckets returns the canonical bucket thresholds.
func DefaultPriceBuckets() PriceBuckets {
	return PriceBuckets{Low: 5, High: 15}
}

// Bucket classifies a price-per-unit value.
func (b PriceBuckets) Bucket(pricePerUnit float64) types.PriceBucket {
	switch {
	case pricePerUnit < b.Low:
		return types.PriceBucketLow
	case pricePerUnit > b.High:
		return types.PriceBucketHigh
	default:
		return types.PriceBucketMid
	}
}

// mergeGroup merges all records of one key cluster into a canonical
// product. The group must be non-empty; order of the input slice does
// not matter; it is re-sorted by the tie-break before use.
func mergeGroup(key string, group []scored, buckets PriceBuckets) catalog.Product {
	sortGroup(group)
	winner := group[0]

	p := catalog.Product{
		Key:             key,
		BrandSlug:       winner.Brand.BrandSlug,
		BrandLine:       winner.Brand.BrandLine,
		Name:            winner.Brand.CleanedName,
		Form:            winner.Candidate.Form(),
		BrandConfidence: winner.Brand.Confidence,
		Provenance:      make(map[string]catalog.FieldOrigin),
	}

	contrib := newContributions(group)

	// Base fields come from the single winning record.
	base := winner.Candidate
	origin := catalog.FieldOrigin{Source: base.SourceID, Score: winner.Score, Resolution: ResolutionMerge.String()}

	p.Provenance["name"] = origin
	contrib.add(base.SourceID, "name")
	if p.BrandLine != "" {
		p.Provenance["brand_line"] = origin
		contrib.add(base.SourceID, "brand_line")
	}
	if base.LifeStageRaw != "" {
		p.LifeStage = base.LifeStageRaw
		p.Provenance["life_stage"] = origin
		contrib.add(base.SourceID, "life_stage")
	}
	if len(base.IngredientsTokens) > 0 {
		p.Ingredients = append([]string(nil), base.IngredientsTokens...)
		p.Provenance["ingredients"] = origin
		contrib.add(base.SourceID, "ingredients")
	}
	if base.KcalPer100g != nil {
		p.KcalPer100g = copyFloat(base.KcalPer100g)
		p.Provenance["kcal_per_100g"] = origin
		contrib.add(base.SourceID, "kcal_per_100g")
	}
	if base.ProteinPercent != nil {
		p.ProteinPercent = copyFloat(base.ProteinPercent)
		p.Provenance["protein_percent"] = origin
		contrib.add(base.SourceID, "protein_percent")
	}
	if base.FatPercent != nil {
		p.FatPercent = copyFloat(base.FatPercent)
		p.Provenance["fat_percent"] = origin
		contrib.add(base.SourceID, "fat_percent")
	}
	if len(base.PackSizes) > 0 {
		p.PackSizes = append([]string(nil), base.PackSizes...)
		p.Provenance["pack_sizes"] = origin
		contrib.add(base.SourceID, "pack_sizes")
	}

	// Enrichment fields may come from any group member when the winner
	// lacks them, in the same tie-break order.
	mergePrice(&p, group, buckets, contrib)
	mergeImage(&p, group, contrib)
	mergeCountries(&p, group, contrib)

	// Observation window spans the whole group.
	for _, s := range group {
		if p.FirstSeenAt.IsZero() || s.Candidate.FirstSeenAt.Before(p.FirstSeenAt) {
			p.FirstSeenAt = s.Candidate.FirstSeenAt
		}
		if s.Candidate.LastSeenAt.After(p.LastSeenAt) {
			p.LastSeenAt = s.Candidate.LastSeenAt
		}
	}

	p.NameSlug = nameSlugOfKey(key)
	p.Sources = contrib.list()
	return p
}

// mergePrice resolves price from the first member (tie-break order)
// carrying one, then derives price per unit and its bucket when the
// supplying record also states a pack weight.
func mergePrice(p *catalog.Product, group []scored, buckets PriceBuckets, contrib *contributions) {
	for _, s := range group {
		if s.Candidate.Price == nil {
			continue
		}
		p.Price = copyFloat(s.Candidate.Price)
		p.Provenance["price"] = catalog.FieldOrigin{Source: s.Candidate.SourceID, Score: s.Score, Resolution: ResolutionMerge.String()}
		contrib.add(s.Candidate.SourceID, "price")

		if w := s.Candidate.PackWeightKg; w != nil && *w > 0 {
			perUnit := math.Round(*s.Candidate.Price / *w * 100) / 100
			p.PricePerUnit = &perUnit
			p.PriceBucket = buckets.Bucket(perUnit)
			p.Provenance["price_per_unit"] = catalog.FieldOrigin{Source: types.DerivedSource, Resolution: ResolutionDerived.String()}
			p.Provenance["price_bucket"] = catalog.FieldOrigin{Source: types.DerivedSource, Resolution: ResolutionDerived.String()}
		}
		return
	}
}

// mergeImage resolves the image URL from the first member carrying one.
func mergeImage(p *catalog.Product, group []scored, contrib *contributions) {
	for _, s := range group {
		if s.Candidate.ImageURL == "" {
			continue
		}
		p.ImageURL = s.Candidate.ImageURL
		p.Provenance["image_url"] = catalog.FieldOrigin{Source: s.Candidate.SourceID, Score: s.Score, Resolution: ResolutionMerge.String()}
		contrib.add(s.Candidate.SourceID, "image_url")
		return
	}
}

// mergeCountries unions available countries across all members; the
// published set is never narrowed.
func mergeCountries(p *catalog.Product, group []scored, contrib *contributions) {
	var all []string
	var suppliers []types.SourceID
	for _, s := range group {
		countries := s.Candidate.Countries()
		if len(countries) == 0 {
			continue
		}
		all = append(all, countries...)
		suppliers = append(suppliers, s.Candidate.SourceID)
		contrib.add(s.Candidate.SourceID, "available_countries")
	}
	if len(all) == 0 {
		return
	}
	p.AvailableCountries = catalog.NormalizeCountries(all)
	if len(suppliers) == 1 {
		p.Provenance["available_countries"] = catalog.FieldOrigin{Source: suppliers[0], Resolution: ResolutionMerge.String()}
	} else {
		// More than one supplier: the union itself is the value.
		p.Provenance["available_countries"] = catalog.FieldOrigin{Source: types.DerivedSource, Resolution: ResolutionDerived.String()}
	}
}

// contributions accumulates the per-source audit trail in group
// tie-break order.
type contributions struct {
	order  []types.SourceID
	scores map[types.SourceID]int
	fields map[types.SourceID][]string
}

func newContributions(group []scored) *contributions {
	c := &contributions{
		scores: make(map[types.SourceID]int, len(group)),
		fields: make(map[types.SourceID][]string, len(group)),
	}
	for _, s := range group {
		id := s.Candidate.SourceID
		if _, seen := c.scores[id]; !seen {
			c.order = append(c.order, id)
			c.scores[id] = s.Score
		}
	}
	return c
}

func (c *contributions) add(source types.SourceID, field string) {
	c.fields[source] = append(c.fields[source], field)
}

// list returns every group member in tie-break order, including members
// that contributed nothing; their presence is still audit-relevant.
func (c *contributions) list() []catalog.SourceContribution {
	out := make([]catalog.SourceContribution, 0, len(c.order))
	for _, id := range c.order {
		fields := c.fields[id]
		sort.Strings(fields)
		out = append(out, catalog.SourceContribution{
			SourceID: id,
			Fields:   fields,
			Score:    c.scores[id],
		})
	}
	return out
}

// nameSlugOfKey extracts the name-slug component from a product key.
func nameSlugOfKey(key string) string {
	parts := strings.SplitN(BaseKey(key), KeySeparator, 3)
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}

func copyFloat(f *float64) *float64 {
	v := *f
	return &v
}
