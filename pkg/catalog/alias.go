package catalog

import (
	"sort"
	"strings"

	"github.com/pawprint/pawprint/pkg/normalize"
)

// AliasEntry maps a raw brand phrase to its canonical slug and optional
// brand line. Denylisted entries record phrases that must never trigger
// a match (e.g. "Canine" must not match the "Canin" fragment).
type AliasEntry struct {
	Phrase     string `json:"phrase" yaml:"phrase"`
	BrandSlug  string `json:"brand_slug,omitempty" yaml:"brand_slug,omitempty"`
	BrandLine  string `json:"brand_line,omitempty" yaml:"brand_line,omitempty"`
	Denylisted bool   `json:"denylisted,omitempty" yaml:"denylisted,omitempty"`
}

// AliasMap is the versioned curated table of brand aliases. Read-only
// to the engine at run time; the version is stamped into run results so
// reconciliation runs are reproducible against a known table.
type AliasMap struct {
	Version string       `json:"version" yaml:"version"`
	Entries []AliasEntry `json:"entries" yaml:"entries"`
}

// MatchOrder returns the non-denylisted entries ordered longest phrase
// first, then lexicographically. Longest-first ordering prevents a
// partial alias ("Royal") from claiming a match before the full brand
// ("Royal Canin") is checked.
func (m *AliasMap) MatchOrder() []AliasEntry {
	entries := make([]AliasEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if !e.Denylisted {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Phrase) != len(entries[j].Phrase) {
			return len(entries[i].Phrase) > len(entries[j].Phrase)
		}
		return entries[i].Phrase < entries[j].Phrase
	})
	return entries
}

// Denylist returns the lower-cased denylisted phrases.
func (m *AliasMap) Denylist() []string {
	var out []string
	for _, e := range m.Entries {
		if e.Denylisted {
			out = append(out, strings.ToLower(e.Phrase))
		}
	}
	sort.Strings(out)
	return out
}

// Stems returns, per brand slug, the multi-word canonical phrases known
// for it. Guards and the split-brand repair both consume this to detect
// a stem ("Royal") whose complement ("Canin") leaked into a product
// name.
func (m *AliasMap) Stems() []BrandStem {
	var stems []BrandStem
	for _, e := range m.Entries {
		if e.Denylisted {
			continue
		}
		words := strings.Fields(e.Phrase)
		if len(words) < 2 {
			continue
		}
		// Entries without an explicit brand_slug fall back to the slug
		// of the full phrase, same as direct alias matching, so a
		// repaired split resolves to the same key.
		slug := e.BrandSlug
		if slug == "" {
			slug = normalize.BrandSlug(e.Phrase)
		}
		stems = append(stems, BrandStem{
			Stem:       words[0],
			Complement: strings.Join(words[1:], " "),
			BrandSlug:  slug,
			BrandLine:  e.BrandLine,
		})
	}
	sort.Slice(stems, func(i, j int) bool {
		if stems[i].Stem != stems[j].Stem {
			return stems[i].Stem < stems[j].Stem
		}
		return stems[i].Complement < stems[j].Complement
	})
	return stems
}

// BrandStem describes a multi-word brand split into its first word and
// the remainder, for split-brand detection.
type BrandStem struct {
	Stem       string
	Complement string
	BrandSlug  string
	BrandLine  string
}
