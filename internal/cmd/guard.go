package cmd

import (
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/publish"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Check guard invariants over the published preview",
	Long: `Guard evaluates every invariant rule against the currently published
preview and prints the machine-readable report. A non-zero violation
total makes the command fail, so it can serve as a release gate.`,
	RunE: runGuard,
}

func init() {
	rootCmd.AddCommand(guardCmd)
}

func runGuard(cmd *cobra.Command, _ []string) error {
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

	report := pipe.checker.Check(preview.Products)

	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	cmd.Print(string(out))

	if !report.Clean() {
		return &errors.GuardError{Guard: "promotion gate", Violations: report.Total()}
	}
	return nil
}
