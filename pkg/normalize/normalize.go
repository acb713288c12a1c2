// Package normalize provides pure text normalization for product names.
// It derives the name-slug component of product keys: size tokens
// compacted to one canonical spelling, pack-count boilerplate stripped,
// stop words removed, diacritics folded, whitespace collapsed to single
// hyphens. Everything here is deterministic and free of storage or
// configuration side effects so it can be property-tested in isolation.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compiled patterns for size, multipack, and pack-count tokens.
var (
	// Matches multipack tokens like "12x85g", "6 x 400 g", "4x2kg".
	multipackPattern = regexp.MustCompile(`(?i)\b\d+\s*x\s*\d+(?:[.,]\d+)?[\s-]*(?:kg|g|mg|ml|l|litres?|liters?|lb|lbs|oz)\b`)

	// Matches single size tokens like "2kg", "400 g", "1.5l", "12oz", "85-g".
	sizePattern = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?[\s-]*(?:kg|g|mg|ml|l|litres?|liters?|lb|lbs|pounds?|oz|ounces?)\b`)

	// Matches pack-count tokens like "12 pack", "pack of 6", "24 cans", "6-pack".
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[\s-]*(?:pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b|\b\d+\s*(?:cans?|pouches?|trays?|sachets?|tins?)\b`)

	sizeSepPattern    = regexp.MustCompile(`[\s-]+`)
	apostrophePattern = regexp.MustCompile(`['\x{2019}]`)
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// unitAliases folds long unit spellings to their short canonical form
// inside compacted size tokens.
var unitAliases = strings.NewReplacer(
	"litres", "l", "liters", "l", "litre", "l", "liter", "l",
	"pounds", "lb", "pound", "lb", "lbs", "lb",
	"ounces", "oz", "ounce", "oz",
)

// DefaultStopWords are flavor/pack boilerplate tokens stripped from name
// slugs. The list is replaceable through configuration; these defaults
// cover the retailer feeds seen so far.
func DefaultStopWords() []string {
	return []string{
		// Packaging
		"bag", "box", "can", "pouch", "tin", "tray", "tub", "sack",
		// Marketing boilerplate
		"new", "improved", "premium", "complete", "original", "classic",
		"value", "economy", "saver", "multibuy", "bundle",
		// Flavor connectives that vary across listings of one product
		"with", "and", "in", "flavour", "flavor", "recipe", "rich",
	}
}

// StopSet builds a lookup set from a stop-word list.
func StopSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

// Fold lower-cases s and strips diacritics, so "Díner Déluxe" and
// "Diner Deluxe" normalize identically.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// CanonicalizeSizeTokens rewrites size and multipack tokens to one
// compact spelling ("15 kg" -> "15kg", "6 x 400 g" -> "6x400g") so
// listings of one SKU agree on the size component of the slug. Sizes
// are identity: a 2kg bag and a 15kg bag are different products.
// Multipacks are compacted before single sizes so "12x85g" is kept
// whole.
func CanonicalizeSizeTokens(name string) string {
	compact := func(tok string) string {
		tok = strings.ToLower(tok)
		tok = sizeSepPattern.ReplaceAllString(tok, "")
		return unitAliases.Replace(tok)
	}
	cleaned := multipackPattern.ReplaceAllStringFunc(name, compact)
	return sizePattern.ReplaceAllStringFunc(cleaned, compact)
}

// StripPackCountTokens removes pack-count boilerplate ("pack of 6",
// "24 cans") that varies freely across listings of one product.
func StripPackCountTokens(name string) string {
	cleaned := packCountPattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(cleaned, " "))
}

// NameSlug derives the deterministic slug for a cleaned product name:
// size tokens compacted, pack counts stripped, folded, stop words
// removed, hyphen-joined. Passing nil stop words applies
// DefaultStopWords.
func NameSlug(name string, stop map[string]bool) string {
	if stop == nil {
		stop = StopSet(DefaultStopWords())
	}

	folded := Fold(StripPackCountTokens(CanonicalizeSizeTokens(name)))
	folded = apostrophePattern.ReplaceAllString(folded, "")
	folded = nonAlnumPattern.ReplaceAllString(folded, " ")

	var kept []string
	for _, tok := range strings.Fields(folded) {
		if stop[tok] {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, "-")
}

// BrandSlug derives a brand slug from a canonical brand name:
// folded, non-alphanumerics collapsed to single underscores.
func BrandSlug(name string) string {
	folded := apostrophePattern.ReplaceAllString(Fold(name), "")
	folded = nonAlnumPattern.ReplaceAllString(folded, " ")
	return strings.Join(strings.Fields(folded), "_")
}

// Tokenize splits a name into lower-cased alphanumeric tokens, for
// similarity comparison. Pure token split, no stop-word removal: the
// caller decides what noise matters.
func Tokenize(s string) []string {
	folded := apostrophePattern.ReplaceAllString(Fold(s), "")
	folded = nonAlnumPattern.ReplaceAllString(folded, " ")
	return strings.Fields(folded)
}
