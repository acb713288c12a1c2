package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Promote the published preview to production",
	Long: `Publish re-checks every guard against the current preview and, when
all of them are clean, refreshes the production view from it. No
reconciliation runs; use this after fixing the alias map or overrides
that caused a run to publish without promotion.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	pipe, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	pub := publish.New(cfg.Paths.Output)
	preview, err := catalog.LoadProducts(pub.PreviewPath())
	if err != nil {
		return err
	}
	if preview == nil {
		return errors.ErrNotFound
	}

	lease, err := publish.AcquireLease(pub.LeasePath(), "promote-"+preview.RunID)
	if err != nil {
		return err
	}
	defer lease.Release() //nolint:errcheck

	report := pipe.checker.Check(preview.Products)
	if err := pub.Promote(cmd.Context(), report); err != nil {
		return err
	}

	cmd.Printf("Promoted run %s to production.\n", preview.RunID)
	return nil
}
