package reconcile

import (
	"time"

	"github.com/pawprint/pawprint/pkg/catalog"
)

// Stats summarizes one reconciliation pass.
type Stats struct {
	CandidatesIn        int `json:"candidates_in" yaml:"candidates_in"`
	CandidatesUsed      int `json:"candidates_used" yaml:"candidates_used"`
	Products            int `json:"products" yaml:"products"`
	Collisions          int `json:"collisions" yaml:"collisions"`
	OverrideConflicts   int `json:"override_conflicts" yaml:"override_conflicts"`
	LowConfidenceBrands int `json:"low_confidence_brands" yaml:"low_confidence_brands"`
	RepairedBrands      int `json:"repaired_brands" yaml:"repaired_brands"`
}

// Result is the complete output of a reconciliation pass: the merged
// catalog plus everything an operator needs to audit the run.
type Result struct {
	Products catalog.Products `json:"products" yaml:"products"`

	Collisions        []Collision        `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	OverrideConflicts []OverrideConflict `json:"override_conflicts,omitempty" yaml:"override_conflicts,omitempty"`

	Stats        Stats     `json:"stats" yaml:"stats"`
	AliasVersion string    `json:"alias_version" yaml:"alias_version"`
	Watermark    time.Time `json:"watermark" yaml:"watermark"`
	RunID        string    `json:"run_id" yaml:"run_id"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration returns the wall-clock time of the pass.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clean reports whether the pass produced no collisions and no
// override conflicts.
func (r *Result) Clean() bool {
	return len(r.Collisions) == 0 && len(r.OverrideConflicts) == 0
}
