package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/differ"
	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/logging"
	"github.com/pawprint/pawprint/pkg/publish"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

var (
	reconcileDryRun       bool
	reconcileAllowPending bool
	reconcileWatermark    string
	reconcileRunID        string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the candidate feed into a new snapshot",
	Long: `Reconcile reads the harvested candidate feed as of a snapshot
watermark, canonicalizes brands against the alias map, merges records
under deterministic product keys, applies overrides, checks guard
invariants, and publishes a new snapshot.

The preview view always reflects the run. The production view is only
refreshed when every guard reports zero violations; with
--allow-pending a dirty run still publishes the preview and carries the
previous production view forward.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "compute and report without publishing")
	reconcileCmd.Flags().BoolVar(&reconcileAllowPending, "allow-pending", false, "publish the preview despite guard violations")
	reconcileCmd.Flags().StringVar(&reconcileWatermark, "watermark", "", "snapshot cutoff, RFC 3339 (default now)")
	reconcileCmd.Flags().StringVar(&reconcileRunID, "run-id", "", "run identifier (default random UUID)")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	watermark := time.Now().UTC()
	if reconcileWatermark != "" {
		parsed, err := time.Parse(time.RFC3339, reconcileWatermark)
		if err != nil {
			return fmt.Errorf("parsing watermark: %w", err)
		}
		watermark = parsed.UTC()
	}

	runID := reconcileRunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx := logging.WithRunID(cmd.Context(), runID)
	logger := logging.FromContext(ctx)

	pipe, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	candidates, err := catalog.LoadCandidates(cfg.Paths.Candidates)
	if err != nil {
		return err
	}
	logger.Info().
		Int("candidates", len(candidates)).
		Time("watermark", watermark).
		Str("alias_version", pipe.aliases.Version).
		Msg("starting reconciliation")

	pub := publish.New(cfg.Paths.Output,
		publish.WithAllowPending(reconcileAllowPending || cfg.AllowPending))

	if !reconcileDryRun {
		if err := os.MkdirAll(cfg.Paths.Output, 0o755); err != nil {
			return err
		}
		lease, err := publish.AcquireLease(pub.LeasePath(), runID)
		if err != nil {
			return err
		}
		defer lease.Release() //nolint:errcheck
	}

	result, err := pipe.engine.Run(ctx, reconcile.Input{
		Candidates:     candidates,
		Overrides:      pipe.overrides,
		Allowlist:      pipe.allowlist,
		Watermark:      watermark,
		ApprovedMerges: cfg.Engine.ApprovedMerges,
		RunID:          runID,
	})
	if err != nil {
		return err
	}

	report := pipe.checker.Check(result.Products)
	printChangeset(cmd, pub, result)
	printRunSummary(cmd, result, report)

	if reconcileDryRun {
		logger.Info().Msg("dry run, nothing published")
		return nil
	}
	return pub.Publish(ctx, result, report)
}

// printChangeset diffs the run against the currently published preview.
func printChangeset(cmd *cobra.Command, pub *publish.Publisher, result *reconcile.Result) {
	previous, err := catalog.LoadProducts(pub.PreviewPath())
	if err != nil || previous == nil {
		return
	}

	changes := differ.Products(previous.Products, result.Products)
	if !changes.HasChanges() {
		cmd.Println("No changes against the published preview.")
		return
	}
	cmd.Println(changes.Summary())
	for _, added := range changes.Added {
		cmd.Printf("  + %s\n", added.Key)
	}
	for _, updated := range changes.Updated {
		cmd.Printf("  ~ %s (%v)\n", updated.Key, updated.Fields)
	}
	for _, removed := range changes.Removed {
		cmd.Printf("  - %s\n", removed.Key)
	}
}

func printRunSummary(cmd *cobra.Command, result *reconcile.Result, report *guard.Report) {
	cmd.Printf("Products: %d (from %d candidates, %d in snapshot)\n",
		result.Stats.Products, result.Stats.CandidatesIn, result.Stats.CandidatesUsed)
	if result.Stats.Collisions > 0 {
		cmd.Printf("Key collisions for review: %d\n", result.Stats.Collisions)
	}
	if result.Stats.OverrideConflicts > 0 {
		cmd.Printf("Override conflicts skipped: %d\n", result.Stats.OverrideConflicts)
	}
	if result.Stats.LowConfidenceBrands > 0 {
		cmd.Printf("Unresolved brands (low confidence): %d\n", result.Stats.LowConfidenceBrands)
	}
	if report.Clean() {
		cmd.Println("Guards: clean")
	} else {
		cmd.Printf("Guards: %d violations, production will not be promoted\n", report.Total())
	}
}
