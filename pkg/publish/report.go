package publish

import (
	"time"

	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

// RunReport is the machine-readable record of one reconciliation run,
// published beside the views it produced. The release gate reads the
// guard results from here.
type RunReport struct {
	RunID        string    `json:"run_id" yaml:"run_id"`
	Watermark    time.Time `json:"watermark" yaml:"watermark"`
	AliasVersion string    `json:"alias_version" yaml:"alias_version"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time `json:"finished_at" yaml:"finished_at"`

	Stats             reconcile.Stats              `json:"stats" yaml:"stats"`
	Collisions        []reconcile.Collision        `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	OverrideConflicts []reconcile.OverrideConflict `json:"override_conflicts,omitempty" yaml:"override_conflicts,omitempty"`

	Guards *guard.Report `json:"guards" yaml:"guards"`

	// ResolutionChain is the field precedence order the run applied,
	// recorded so downstream consumers can interpret provenance entries.
	ResolutionChain []reconcile.Resolution `json:"resolution_chain" yaml:"resolution_chain"`

	// Promoted records whether this run refreshed the production view.
	Promoted bool `json:"promoted" yaml:"promoted"`
}

// NewRunReport assembles the report from a run's result and its guard
// report.
func NewRunReport(result *reconcile.Result, report *guard.Report, promoted bool) *RunReport {
	return &RunReport{
		RunID:             result.RunID,
		Watermark:         result.Watermark,
		AliasVersion:      result.AliasVersion,
		StartedAt:         result.StartedAt,
		FinishedAt:        result.FinishedAt,
		Stats:             result.Stats,
		Collisions:        result.Collisions,
		OverrideConflicts: result.OverrideConflicts,
		Guards:            report,
		ResolutionChain:   reconcile.Chain(),
		Promoted:          promoted,
	}
}
