package types

import "strings"

// SourceID identifies one harvested data source, typically a retailer or
// manufacturer domain, optionally with a path suffix for multi-feed
// domains (e.g., "zooplus.de" or "chewy.com/brand-pages").
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// Domain returns the domain portion of the source ID, used to look up
// the per-domain trust weight.
func (id SourceID) Domain() string {
	s := string(id)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// OverrideSource is the provenance marker for values supplied by a
// manual override rather than a harvested source.
const OverrideSource SourceID = "override"

// DerivedSource is the provenance marker for values computed by the
// engine itself (e.g., price per unit).
const DerivedSource SourceID = "derived"
