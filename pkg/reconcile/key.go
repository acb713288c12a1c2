// Package reconcile implements the merge engine of the catalog: it
// groups canonicalized candidate records by product key, selects and
// aggregates winning field values with deterministic tie-breaks, layers
// manual overrides on top, and reports collisions and conflicts instead
// of silently resolving them. Output is byte-identical for the same
// input set regardless of record order or parallelism.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/types"
)

// KeySeparator joins the components of a product key.
const KeySeparator = "::"

// BuildKey derives the deterministic product key from a canonical brand
// slug, a cleaned product name, and a form. Pure: same inputs always
// produce the same key.
func BuildKey(brandSlug, cleanedName string, form types.Form, stop map[string]bool) string {
	nameSlug := normalize.NameSlug(cleanedName, stop)
	return brandSlug + KeySeparator + nameSlug + KeySeparator + form.OrAny().String()
}

// SuffixKey disambiguates the nth cluster of a colliding key. Cluster 1
// keeps the bare key; later clusters carry #n suffixes until a human
// confirms a merge or a permanent split.
func SuffixKey(key string, n int) string {
	if n <= 1 {
		return key
	}
	return fmt.Sprintf("%s#%d", key, n)
}

// BaseKey strips a collision suffix, returning the underlying key.
func BaseKey(key string) string {
	if i := strings.IndexByte(key, '#'); i >= 0 {
		return key[:i]
	}
	return key
}
