package reconcile

// Resolution names one step of the per-field precedence chain. Every
// published field value is resolved by evaluating the chain left to
// right: a manual override wins outright, then the best-scored merged
// value, then a derived default. Keeping the chain as explicit named
// steps (instead of a COALESCE-style expression buried in a view) makes
// precedence auditable and testable on its own.
type Resolution string

const (
	// ResolutionOverride takes the value from a manual override.
	ResolutionOverride Resolution = "override"

	// ResolutionMerge takes the value from the best-scored candidate
	// that has it.
	ResolutionMerge Resolution = "best-scored-merge"

	// ResolutionDerived computes the value from other resolved fields
	// (e.g. price per unit from price and pack weight).
	ResolutionDerived Resolution = "derived-default"
)

// Chain is the canonical resolution order. One scheme for the whole
// run; alternates seen in older reconciliation passes are deliberately
// not preserved.
func Chain() []Resolution {
	return []Resolution{ResolutionOverride, ResolutionMerge, ResolutionDerived}
}

// String returns the string representation of a resolution step.
func (r Resolution) String() string {
	return string(r)
}
