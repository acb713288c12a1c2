// Package publish materializes reconciliation output: the preview and
// production views, the run report, and the single-owner lease that
// serializes runs against one snapshot target. Output is staged and
// atomically swapped into place, so a cancelled or failed run never
// publishes partially.
package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/logging"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

// File names inside a published snapshot directory.
const (
	PreviewFile    = "preview.yaml"
	ProductionFile = "production.yaml"
	ReportFile     = "run_report.yaml"

	// CurrentDir is the snapshot directory consumers read.
	CurrentDir = "current"

	// LeaseFile is the run lease beside the snapshot directory.
	LeaseFile = "reconcile.lease"
)

// Publisher writes reconciliation output under a base directory.
type Publisher struct {
	dir          string
	allowPending bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAllowPending publishes the preview even when guards report
// violations. The production view is then carried forward unchanged
// instead of being promoted.
func WithAllowPending(allow bool) Option {
	return func(p *Publisher) { p.allowPending = allow }
}

// New creates a Publisher rooted at dir.
func New(dir string, opts ...Option) *Publisher {
	p := &Publisher{dir: dir}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LeasePath returns the lease file location for this target.
func (p *Publisher) LeasePath() string {
	return filepath.Join(p.dir, LeaseFile)
}

// PreviewPath returns the published preview view location.
func (p *Publisher) PreviewPath() string {
	return filepath.Join(p.dir, CurrentDir, PreviewFile)
}

// ProductionPath returns the published production view location.
func (p *Publisher) ProductionPath() string {
	return filepath.Join(p.dir, CurrentDir, ProductionFile)
}

// ReportPath returns the published run report location.
func (p *Publisher) ReportPath() string {
	return filepath.Join(p.dir, CurrentDir, ReportFile)
}

// Publish writes the run's output as a new snapshot. The snapshot is
// complete before it becomes visible: files are written to a staging
// directory and the directory is renamed over the current one only when
// everything succeeded and the context is still live.
//
// A dirty guard report refuses the publish unless the publisher allows
// pending violations, in which case the preview updates and the
// production view is carried forward from the previous snapshot.
func (p *Publisher) Publish(ctx context.Context, result *reconcile.Result, report *guard.Report) error {
	logger := logging.FromContext(ctx)

	promoted := report.Clean()
	if !promoted && !p.allowPending {
		return &errors.GuardError{
			Guard:      strings.Join(failingRules(report), ","),
			Violations: report.Total(),
		}
	}

	if err := ctx.Err(); err != nil {
		return errors.ErrCanceled
	}

	staging := filepath.Join(p.dir, fmt.Sprintf(".staging-%s", result.RunID))
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return errors.WrapIO("create", staging, err)
	}
	defer os.RemoveAll(staging)

	preview := catalog.ProductFile{
		Watermark:    result.Watermark,
		AliasVersion: result.AliasVersion,
		RunID:        result.RunID,
		Products:     result.Products,
	}
	if err := writeYAML(filepath.Join(staging, PreviewFile), preview); err != nil {
		return err
	}

	if err := p.stageProduction(staging, result, promoted); err != nil {
		return err
	}

	runReport := NewRunReport(result, report, promoted)
	if err := writeYAML(filepath.Join(staging, ReportFile), runReport); err != nil {
		return err
	}

	// The swap is the commit point; a cancelled run stops short of it.
	if err := ctx.Err(); err != nil {
		return errors.ErrCanceled
	}
	if err := p.swap(staging, result.RunID); err != nil {
		return err
	}

	logger.Info().
		Str("run_id", result.RunID).
		Int("products", len(result.Products)).
		Bool("promoted", promoted).
		Msg("snapshot published")
	return nil
}

// stageProduction writes the production view: the promotable subset on
// a clean run, or the previous production snapshot carried forward.
func (p *Publisher) stageProduction(staging string, result *reconcile.Result, promoted bool) error {
	target := filepath.Join(staging, ProductionFile)

	if promoted {
		production := catalog.ProductFile{
			Watermark:    result.Watermark,
			AliasVersion: result.AliasVersion,
			RunID:        result.RunID,
			Products:     promotable(result.Products),
		}
		return writeYAML(target, production)
	}

	previous, err := catalog.LoadProducts(p.ProductionPath())
	if err != nil {
		return err
	}
	if previous == nil {
		// Nothing published yet; production starts empty.
		previous = &catalog.ProductFile{RunID: result.RunID, Watermark: result.Watermark}
	}
	return writeYAML(target, previous)
}

// swap renames the staged snapshot over the current one. The previous
// snapshot is moved aside first and restored if the commit rename
// fails.
func (p *Publisher) swap(staging, runID string) error {
	current := filepath.Join(p.dir, CurrentDir)
	previous := filepath.Join(p.dir, fmt.Sprintf(".previous-%s", runID))

	hadPrevious := true
	if err := os.Rename(current, previous); err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return &errors.SnapshotError{Stage: "swap", Path: current, Message: "moving previous snapshot aside", Err: err}
		}
		hadPrevious = false
	}

	if err := os.Rename(staging, current); err != nil {
		if hadPrevious {
			_ = os.Rename(previous, current)
		}
		return &errors.SnapshotError{Stage: "swap", Path: staging, Message: "committing staged snapshot", Err: err}
	}

	if hadPrevious {
		if err := os.RemoveAll(previous); err != nil {
			return &errors.SnapshotError{Stage: "swap", Path: previous, Message: "removing previous snapshot", Err: err}
		}
	}
	return nil
}

// promotable filters the production view: only products of brands in a
// promotable allowlist state.
func promotable(products catalog.Products) catalog.Products {
	out := make(catalog.Products, 0, len(products))
	for _, p := range products {
		if p.AllowlistStatus.Promotable() {
			out = append(out, p)
		}
	}
	return out
}

func failingRules(report *guard.Report) []string {
	var out []string
	for _, res := range report.Results {
		if res.ViolationCount > 0 {
			out = append(out, res.Guard)
		}
	}
	return out
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // published views are world-readable
		return errors.WrapIO("write", path, err)
	}
	return nil
}
