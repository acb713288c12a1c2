// Package brand resolves raw brand and product-name text to a canonical
// brand slug, repairing split-brand defects where part of a multi-word
// brand leaked into the product-name field. Matching is whole-word only,
// longest alias first, with an explicit denylist; the package never
// guesses by fuzzy similarity.
package brand

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/types"
)

// Result is the outcome of canonicalizing one (brand, product name)
// pair.
type Result struct {
	BrandSlug string
	BrandLine string
	// BrandName is the display form of the brand: the alias phrase, or
	// the title-cased raw text when nothing matched.
	BrandName string
	// CleanedName is the product name with brand fragments stripped.
	CleanedName string
	Confidence  types.Confidence
	// Repaired is true when a split-brand defect was fixed.
	Repaired bool
}

// Canonicalizer matches raw brand text against a versioned alias map.
// Safe for concurrent use once built.
type Canonicalizer struct {
	aliases  []aliasPattern
	denylist []*regexp.Regexp
	stems    []stemPattern
	version  string
	titler   cases.Caser
}

type aliasPattern struct {
	entry catalog.AliasEntry
	// word matches the phrase as whole words anywhere in the brand text.
	word *regexp.Regexp
	slug string
}

type stemPattern struct {
	stem catalog.BrandStem
	// lead matches the complement at the start of a product name,
	// consuming trailing separators.
	lead *regexp.Regexp
}

// New compiles a canonicalizer from an alias map.
func New(aliases *catalog.AliasMap) (*Canonicalizer, error) {
	if aliases == nil {
		return nil, errors.NewValidationError("aliases", nil, "alias map is required")
	}

	c := &Canonicalizer{
		version: aliases.Version,
		titler:  cases.Title(language.English),
	}

	for _, entry := range aliases.MatchOrder() {
		word, err := regexp.Compile(`(?i)\b` + phraseToPattern(entry.Phrase) + `\b`)
		if err != nil {
			return nil, errors.WrapValidation("phrase", err)
		}
		c.aliases = append(c.aliases, aliasPattern{
			entry: entry,
			word:  word,
			slug:  normalize.BrandSlug(entry.Phrase),
		})
	}

	for _, phrase := range aliases.Denylist() {
		deny, err := regexp.Compile(`(?i)^` + phraseToPattern(phrase) + `\b`)
		if err != nil {
			return nil, errors.WrapValidation("denylist", err)
		}
		c.denylist = append(c.denylist, deny)
	}

	for _, stem := range aliases.Stems() {
		lead, err := regexp.Compile(`(?i)^` + phraseToPattern(stem.Complement) + `\b[\s:,-]*`)
		if err != nil {
			return nil, errors.WrapValidation("stem", err)
		}
		c.stems = append(c.stems, stemPattern{stem: stem, lead: lead})
	}

	return c, nil
}

// Version returns the alias-map version the canonicalizer was built
// from, for stamping into run results.
func (c *Canonicalizer) Version() string {
	return c.version
}

// Canonicalize resolves raw brand and product-name text. Idempotent:
// applying it to its own output changes nothing.
func (c *Canonicalizer) Canonicalize(brandRaw, productNameRaw string) Result {
	brandText := strings.TrimSpace(brandRaw)
	nameText := strings.TrimSpace(productNameRaw)

	// Direct alias match on the brand text, longest alias first.
	for _, ap := range c.aliases {
		if !c.brandMatches(ap, brandText) {
			continue
		}
		slug := ap.entry.BrandSlug
		if slug == "" {
			slug = ap.slug
		}
		return Result{
			BrandSlug:   slug,
			BrandLine:   ap.entry.BrandLine,
			BrandName:   ap.entry.Phrase,
			CleanedName: c.stripBrandPrefix(nameText, ap),
			Confidence:  types.ConfidenceHigh,
		}
	}

	// Split-brand repair: brand text is a known stem and the product
	// name starts with the complementary fragment.
	if repaired, ok := c.repairSplit(brandText, nameText); ok {
		return repaired
	}

	// No alias matched. Keep the raw brand, title-cased, flagged low
	// confidence; never fabricate a canonical brand.
	display := c.titler.String(strings.ToLower(brandText))
	return Result{
		BrandSlug:   normalize.BrandSlug(brandText),
		BrandName:   display,
		CleanedName: nameText,
		Confidence:  types.ConfidenceLow,
	}
}

// brandMatches reports whether the alias phrase matches the brand text:
// whole-word match on the raw text, or slug equality when the brand
// field already carries a canonical slug.
func (c *Canonicalizer) brandMatches(ap aliasPattern, brandText string) bool {
	if ap.word.MatchString(brandText) {
		return true
	}
	slug := ap.entry.BrandSlug
	if slug == "" {
		slug = ap.slug
	}
	return normalize.BrandSlug(brandText) == slug
}

// repairSplit reassigns a split brand phrase. The name's leading text
// must match the stem's complement as a whole word and must not be a
// denylisted phrase ("Canine" never completes "Royal Canin"'s "Canin").
func (c *Canonicalizer) repairSplit(brandText, nameText string) (Result, bool) {
	brandFold := normalize.Fold(brandText)

	for _, sp := range c.stems {
		if normalize.Fold(sp.stem.Stem) != brandFold {
			continue
		}
		if c.denylisted(nameText) {
			continue
		}
		loc := sp.lead.FindStringIndex(nameText)
		if loc == nil {
			continue
		}
		return Result{
			BrandSlug:   sp.stem.BrandSlug,
			BrandLine:   sp.stem.BrandLine,
			BrandName:   sp.stem.Stem + " " + sp.stem.Complement,
			CleanedName: strings.TrimSpace(nameText[loc[1]:]),
			Confidence:  types.ConfidenceHigh,
			Repaired:    true,
		}, true
	}

	return Result{}, false
}

// denylisted reports whether the product name begins with a phrase the
// curation table forbids from completing any brand.
func (c *Canonicalizer) denylisted(nameText string) bool {
	for _, deny := range c.denylist {
		if deny.MatchString(nameText) {
			return true
		}
	}
	return false
}

// stripBrandPrefix removes a leading occurrence of the matched brand
// phrase from the product name, so "Royal Canin Adult" and "Adult" from
// different sources clean to the same name.
func (c *Canonicalizer) stripBrandPrefix(nameText string, ap aliasPattern) string {
	prefix := regexp.MustCompile(`(?i)^` + phraseToPattern(ap.entry.Phrase) + `\b[\s:,-]*`)
	if loc := prefix.FindStringIndex(nameText); loc != nil {
		return strings.TrimSpace(nameText[loc[1]:])
	}
	return nameText
}

// phraseToPattern quotes a phrase for regexp use, with flexible
// whitespace between words.
func phraseToPattern(phrase string) string {
	words := strings.Fields(phrase)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `\s+`)
}
