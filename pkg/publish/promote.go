package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/logging"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

// Promote refreshes the production view from the currently published
// preview, without re-running reconciliation. The guard report must be
// clean; promotion is the one transition guards exist to gate.
func (p *Publisher) Promote(ctx context.Context, report *guard.Report) error {
	logger := logging.FromContext(ctx)

	preview, err := catalog.LoadProducts(p.PreviewPath())
	if err != nil {
		return err
	}
	if preview == nil {
		return fmt.Errorf("no published preview to promote: %w", errors.ErrNotFound)
	}

	if !report.Clean() {
		return &errors.GuardError{
			Guard:      strings.Join(failingRules(report), ","),
			Violations: report.Total(),
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.ErrCanceled
	}

	staging := filepath.Join(p.dir, fmt.Sprintf(".staging-promote-%s", preview.RunID))
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return errors.WrapIO("create", staging, err)
	}
	defer os.RemoveAll(staging)

	if err := writeYAML(filepath.Join(staging, PreviewFile), preview); err != nil {
		return err
	}

	production := catalog.ProductFile{
		Watermark:    preview.Watermark,
		AliasVersion: preview.AliasVersion,
		RunID:        preview.RunID,
		Products:     promotable(preview.Products),
	}
	if err := writeYAML(filepath.Join(staging, ProductionFile), production); err != nil {
		return err
	}

	runReport, err := p.LoadReport()
	if err != nil {
		return err
	}
	if runReport == nil {
		runReport = &RunReport{
			RunID:           preview.RunID,
			Watermark:       preview.Watermark,
			AliasVersion:    preview.AliasVersion,
			ResolutionChain: reconcile.Chain(),
		}
	}
	runReport.Guards = report
	runReport.Promoted = true
	if err := writeYAML(filepath.Join(staging, ReportFile), runReport); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.ErrCanceled
	}
	if err := p.swap(staging, "promote-"+preview.RunID); err != nil {
		return err
	}

	logger.Info().
		Str("run_id", preview.RunID).
		Int("production_products", len(production.Products)).
		Msg("preview promoted to production")
	return nil
}
