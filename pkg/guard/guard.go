// Package guard checks invariants over the canonical product set before
// it may be promoted to production. Every rule is a pure, read-only
// predicate returning violations; a non-zero total blocks promotion but
// never aborts the pipeline.
package guard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

// Rule names, stable identifiers for the guard report.
const (
	RuleOrphanFragment = "orphan-fragment"
	RuleIncompleteSlug = "incomplete-slug"
	RuleSplitBrand     = "split-brand"
	RuleKeyCollision   = "key-collision"
)

// DefaultSampleLimit caps the sample violations kept per rule in the
// report; the count is always exact.
const DefaultSampleLimit = 10

// Checker evaluates every guard rule against a product set. Built from
// the same alias map the canonicalizer uses, so the two stay in
// agreement about what a split brand looks like.
type Checker struct {
	stems       []stemMatcher
	denylist    []*regexp.Regexp
	badSlugs    map[string]bool
	approved    map[string]bool
	sampleLimit int
}

type stemMatcher struct {
	stem      catalog.BrandStem
	stemSlug  string
	brandSlug string
	// lead matches the stem's complement at the start of a product name.
	lead *regexp.Regexp
}

// Option configures a Checker.
type Option func(*Checker)

// WithApprovedMerges marks product keys whose collisions a human has
// signed off; the key-collision rule skips them.
func WithApprovedMerges(keys []string) Option {
	return func(c *Checker) {
		for _, k := range keys {
			c.approved[k] = true
		}
	}
}

// WithBadSlugs adds brand slugs that must never appear in published
// output, beyond the stems derived from the alias map.
func WithBadSlugs(slugs []string) Option {
	return func(c *Checker) {
		for _, s := range slugs {
			c.badSlugs[s] = true
		}
	}
}

// WithSampleLimit caps sample violations per rule.
func WithSampleLimit(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.sampleLimit = n
		}
	}
}

// New compiles a Checker from the alias map. Multi-word aliases yield
// both the split patterns and the default set of known-bad partial
// slugs (the slug of a stem's first word must always resolve to the
// full brand).
func New(aliases *catalog.AliasMap, opts ...Option) (*Checker, error) {
	c := &Checker{
		badSlugs:    make(map[string]bool),
		approved:    make(map[string]bool),
		sampleLimit: DefaultSampleLimit,
	}

	if aliases != nil {
		for _, stem := range aliases.Stems() {
			lead, err := regexp.Compile(`(?i)^` + phrasePattern(stem.Complement) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("compiling stem %q: %w", stem.Complement, err)
			}
			stemSlug := normalize.BrandSlug(stem.Stem)
			c.stems = append(c.stems, stemMatcher{
				stem:      stem,
				stemSlug:  stemSlug,
				brandSlug: stem.BrandSlug,
				lead:      lead,
			})
			c.badSlugs[stemSlug] = true
		}
		for _, phrase := range aliases.Denylist() {
			deny, err := regexp.Compile(`(?i)^` + phrasePattern(phrase) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("compiling denylist %q: %w", phrase, err)
			}
			c.denylist = append(c.denylist, deny)
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check runs every rule over the product set and assembles the report.
func (c *Checker) Check(products catalog.Products) *Report {
	report := &Report{}
	report.add(RuleOrphanFragment, c.checkOrphanFragments(products), c.sampleLimit)
	report.add(RuleIncompleteSlug, c.checkIncompleteSlugs(products), c.sampleLimit)
	report.add(RuleSplitBrand, c.checkSplitBrands(products), c.sampleLimit)
	report.add(RuleKeyCollision, c.checkKeyCollisions(products), c.sampleLimit)
	return report
}

// checkOrphanFragments finds product names that begin with the second
// part of a multi-word brand while the product belongs to some other
// brand. Names starting with a denylisted phrase are exempt ("Canine
// Care" is not an orphaned "Canin").
func (c *Checker) checkOrphanFragments(products catalog.Products) []Violation {
	var out []Violation
	for _, p := range products {
		if c.denylisted(p.Name) {
			continue
		}
		for _, sm := range c.stems {
			if p.BrandSlug == sm.brandSlug {
				continue
			}
			if sm.lead.MatchString(p.Name) {
				out = append(out, Violation{
					Key:       p.Key,
					BrandSlug: p.BrandSlug,
					Detail: fmt.Sprintf("name %q starts with %q, the fragment of brand %q",
						p.Name, sm.stem.Complement, sm.brandSlug),
				})
				break
			}
		}
	}
	return out
}

// checkIncompleteSlugs finds brand slugs that are known-bad partial
// stems and must always resolve to a longer canonical slug.
func (c *Checker) checkIncompleteSlugs(products catalog.Products) []Violation {
	var out []Violation
	for _, p := range products {
		if c.badSlugs[p.BrandSlug] {
			out = append(out, Violation{
				Key:       p.Key,
				BrandSlug: p.BrandSlug,
				Detail:    fmt.Sprintf("brand slug %q is a partial stem", p.BrandSlug),
			})
		}
	}
	return out
}

// checkSplitBrands finds the classic defect: brand is a bare stem and
// the name starts with the complementary fragment.
func (c *Checker) checkSplitBrands(products catalog.Products) []Violation {
	var out []Violation
	for _, p := range products {
		for _, sm := range c.stems {
			if p.BrandSlug != sm.stemSlug {
				continue
			}
			if c.denylisted(p.Name) {
				continue
			}
			if sm.lead.MatchString(p.Name) {
				out = append(out, Violation{
					Key:       p.Key,
					BrandSlug: p.BrandSlug,
					Detail: fmt.Sprintf("brand %q with name %q splits brand %q",
						p.BrandSlug, p.Name, sm.brandSlug),
				})
				break
			}
		}
	}
	return out
}

// checkKeyCollisions finds base keys owned by more than one product
// without an approved merge record. Suffix disambiguation keeps the
// products apart in the data; it does not make the collision acceptable.
func (c *Checker) checkKeyCollisions(products catalog.Products) []Violation {
	owners := make(map[string][]string)
	for _, p := range products {
		base := reconcile.BaseKey(p.Key)
		owners[base] = append(owners[base], p.Key)
	}

	var out []Violation
	for _, p := range products {
		base := reconcile.BaseKey(p.Key)
		if len(owners[base]) < 2 || c.approved[base] {
			continue
		}
		out = append(out, Violation{
			Key:       p.Key,
			BrandSlug: p.BrandSlug,
			Detail: fmt.Sprintf("base key %q is claimed by %d products",
				base, len(owners[base])),
		})
	}
	return out
}

func (c *Checker) denylisted(name string) bool {
	for _, deny := range c.denylist {
		if deny.MatchString(name) {
			return true
		}
	}
	return false
}

func phrasePattern(phrase string) string {
	words := strings.Fields(phrase)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `\s+`)
}
