package publish

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
)

// Status summarizes the state of a snapshot target: what is published
// and whether a run currently holds the lease.
type Status struct {
	Published          bool       `json:"published" yaml:"published"`
	RunID              string     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Watermark          time.Time  `json:"watermark,omitempty" yaml:"watermark,omitempty"`
	AliasVersion       string     `json:"alias_version,omitempty" yaml:"alias_version,omitempty"`
	PreviewProducts    int        `json:"preview_products" yaml:"preview_products"`
	ProductionProducts int        `json:"production_products" yaml:"production_products"`
	Promoted           bool       `json:"promoted" yaml:"promoted"`
	Lease              *LeaseInfo `json:"lease,omitempty" yaml:"lease,omitempty"`
}

// Status inspects the published snapshot and lease without taking any
// locks.
func (p *Publisher) Status() (*Status, error) {
	status := &Status{}

	preview, err := catalog.LoadProducts(p.PreviewPath())
	if err != nil {
		return nil, err
	}
	if preview != nil {
		status.Published = true
		status.RunID = preview.RunID
		status.Watermark = preview.Watermark
		status.AliasVersion = preview.AliasVersion
		status.PreviewProducts = len(preview.Products)
	}

	production, err := catalog.LoadProducts(p.ProductionPath())
	if err != nil {
		return nil, err
	}
	if production != nil {
		status.ProductionProducts = len(production.Products)
	}

	if report, err := p.LoadReport(); err == nil && report != nil {
		status.Promoted = report.Promoted
	}

	lease, err := ReadLease(p.LeasePath())
	if err != nil {
		return nil, err
	}
	status.Lease = lease

	return status, nil
}

// LoadReport reads the published run report. Returns nil when no
// snapshot has been published yet.
func (p *Publisher) LoadReport() (*RunReport, error) {
	data, err := os.ReadFile(p.ReportPath()) //nolint:gosec // path comes from run configuration
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", p.ReportPath(), err)
	}

	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, errors.WrapParse("yaml", p.ReportPath(), err)
	}
	return &report, nil
}
