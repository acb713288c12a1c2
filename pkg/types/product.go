package types

import "slices"

// Form is the physical form of a pet-food product. It is the third
// component of the product key.
type Form string

// String returns the string representation of a form.
func (f Form) String() string {
	return string(f)
}

// Known product forms.
const (
	FormDry    Form = "dry"
	FormWet    Form = "wet"
	FormRaw    Form = "raw"
	FormFreeze Form = "freeze_dried"

	// FormAny is the key component used when no form was extracted.
	FormAny Form = "any"
)

// Forms returns all recognized product forms.
func Forms() []Form {
	return []Form{FormDry, FormWet, FormRaw, FormFreeze}
}

// IsValid returns true if the form is one of the recognized constants.
func (f Form) IsValid() bool {
	return slices.Contains(Forms(), f)
}

// OrAny returns the form itself, or FormAny when empty.
func (f Form) OrAny() Form {
	if f == "" {
		return FormAny
	}
	return f
}

// Confidence expresses how certain the brand canonicalizer is about a
// resolved brand slug.
type Confidence string

// Brand resolution confidence levels.
const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Grade is the completeness tier of a canonical product, recomputed
// after overrides are applied.
type Grade string

// Completeness grades, best first.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// AllowlistState is the promotion state of a brand.
type AllowlistState string

// Brand allowlist states.
const (
	AllowlistActive  AllowlistState = "ACTIVE"
	AllowlistPending AllowlistState = "PENDING"
	AllowlistPaused  AllowlistState = "PAUSED"
	AllowlistRemoved AllowlistState = "REMOVED"
)

// AllowlistStates returns all allowlist states.
func AllowlistStates() []AllowlistState {
	return []AllowlistState{AllowlistActive, AllowlistPending, AllowlistPaused, AllowlistRemoved}
}

// IsValid returns true if the state is one of the defined constants.
func (s AllowlistState) IsValid() bool {
	return slices.Contains(AllowlistStates(), s)
}

// Promotable reports whether products of a brand in this state may
// appear in the production view.
func (s AllowlistState) Promotable() bool {
	return s == AllowlistActive
}

// PriceBucket classifies a derived price-per-unit value.
type PriceBucket string

// Price buckets.
const (
	PriceBucketLow  PriceBucket = "low"
	PriceBucketMid  PriceBucket = "mid"
	PriceBucketHigh PriceBucket = "high"
)
