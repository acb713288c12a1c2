package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/reconcile"
	"github.com/pawprint/pawprint/pkg/types"
)

var testWatermark = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func testResult(runID string) *reconcile.Result {
	return &reconcile.Result{
		Products: catalog.Products{
			{
				Key:             "acme::adult::dry",
				BrandSlug:       "acme",
				Name:            "Adult",
				AllowlistStatus: types.AllowlistActive,
			},
			{
				Key:             "newbrand::puppy::wet",
				BrandSlug:       "newbrand",
				Name:            "Puppy",
				AllowlistStatus: types.AllowlistPending,
			},
		},
		AliasVersion: "v3",
		Watermark:    testWatermark,
		RunID:        runID,
	}
}

func cleanReport() *guard.Report {
	report := &guard.Report{}
	for _, rule := range []string{
		guard.RuleOrphanFragment,
		guard.RuleIncompleteSlug,
		guard.RuleSplitBrand,
		guard.RuleKeyCollision,
	} {
		report.Results = append(report.Results, guard.RuleResult{Guard: rule})
	}
	return report
}

func dirtyReport() *guard.Report {
	report := cleanReport()
	report.Results[2].ViolationCount = 1
	report.Results[2].SampleViolations = []guard.Violation{
		{Key: "royal::canin-adult::dry", BrandSlug: "royal", Detail: "split brand"},
	}
	return report
}

func TestPublishCleanRun(t *testing.T) {
	dir := t.TempDir()
	pub := New(dir)

	err := pub.Publish(context.Background(), testResult("run-1"), cleanReport())
	require.NoError(t, err)

	preview, err := catalog.LoadProducts(pub.PreviewPath())
	require.NoError(t, err)
	require.NotNil(t, preview)
	assert.Equal(t, "run-1", preview.RunID)
	assert.Equal(t, "v3", preview.AliasVersion)
	assert.Len(t, preview.Products, 2)

	// Production carries only promotable brands.
	production, err := catalog.LoadProducts(pub.ProductionPath())
	require.NoError(t, err)
	require.NotNil(t, production)
	require.Len(t, production.Products, 1)
	assert.Equal(t, "acme::adult::dry", production.Products[0].Key)

	report, err := pub.LoadReport()
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.Promoted)

	// No staging or previous directories remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CurrentDir, entries[0].Name())
}

func TestPublishRefusesDirtyGuards(t *testing.T) {
	dir := t.TempDir()
	pub := New(dir)

	err := pub.Publish(context.Background(), testResult("run-1"), dirtyReport())
	require.Error(t, err)
	assert.True(t, errors.IsGuardViolation(err))

	_, statErr := os.Stat(filepath.Join(dir, CurrentDir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublishAllowPendingCarriesProductionForward(t *testing.T) {
	dir := t.TempDir()

	// First run publishes cleanly.
	require.NoError(t, New(dir).Publish(context.Background(), testResult("run-1"), cleanReport()))

	// Second run has violations; preview updates, production does not.
	pub := New(dir, WithAllowPending(true))
	second := testResult("run-2")
	second.Products = append(second.Products, catalog.Product{
		Key:             "acme::senior::dry",
		BrandSlug:       "acme",
		Name:            "Senior",
		AllowlistStatus: types.AllowlistActive,
	})

	require.NoError(t, pub.Publish(context.Background(), second, dirtyReport()))

	preview, err := catalog.LoadProducts(pub.PreviewPath())
	require.NoError(t, err)
	assert.Equal(t, "run-2", preview.RunID)
	assert.Len(t, preview.Products, 3)

	production, err := catalog.LoadProducts(pub.ProductionPath())
	require.NoError(t, err)
	assert.Equal(t, "run-1", production.RunID)
	assert.Len(t, production.Products, 1)

	report, err := pub.LoadReport()
	require.NoError(t, err)
	assert.False(t, report.Promoted)
}

func TestPublishCanceledContext(t *testing.T) {
	dir := t.TempDir()
	pub := New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, testResult("run-1"), cleanReport())
	require.ErrorIs(t, err, errors.ErrCanceled)

	_, statErr := os.Stat(filepath.Join(dir, CurrentDir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLeaseExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), LeaseFile)

	lease, err := AcquireLease(path, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", lease.Info().RunID)

	_, err = AcquireLease(path, "run-2")
	require.Error(t, err)
	assert.True(t, errors.IsLeaseHeld(err))

	var leaseErr *errors.LeaseError
	require.ErrorAs(t, err, &leaseErr)
	assert.Equal(t, "run-1", leaseErr.Owner)

	require.NoError(t, lease.Release())

	// Released lease can be taken again.
	again, err := AcquireLease(path, "run-2")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestPromote(t *testing.T) {
	dir := t.TempDir()

	// Publish run-2 with violations: production stays at run-1.
	require.NoError(t, New(dir).Publish(context.Background(), testResult("run-1"), cleanReport()))
	pending := New(dir, WithAllowPending(true))
	require.NoError(t, pending.Publish(context.Background(), testResult("run-2"), dirtyReport()))

	pub := New(dir)

	// A dirty report still refuses promotion.
	err := pub.Promote(context.Background(), dirtyReport())
	require.Error(t, err)
	assert.True(t, errors.IsGuardViolation(err))

	// Once the defect is fixed, promotion refreshes production from the
	// current preview.
	require.NoError(t, pub.Promote(context.Background(), cleanReport()))

	production, err := catalog.LoadProducts(pub.ProductionPath())
	require.NoError(t, err)
	assert.Equal(t, "run-2", production.RunID)
	require.Len(t, production.Products, 1)
	assert.Equal(t, "acme::adult::dry", production.Products[0].Key)

	report, err := pub.LoadReport()
	require.NoError(t, err)
	assert.True(t, report.Promoted)
}

func TestPromoteNothingPublished(t *testing.T) {
	pub := New(t.TempDir())
	err := pub.Promote(context.Background(), cleanReport())
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestReadLeaseMissing(t *testing.T) {
	info, err := ReadLease(filepath.Join(t.TempDir(), LeaseFile))
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	pub := New(dir)

	// Nothing published yet.
	status, err := pub.Status()
	require.NoError(t, err)
	assert.False(t, status.Published)
	assert.Nil(t, status.Lease)

	require.NoError(t, pub.Publish(context.Background(), testResult("run-1"), cleanReport()))

	lease, err := AcquireLease(pub.LeasePath(), "run-2")
	require.NoError(t, err)
	defer lease.Release() //nolint:errcheck

	status, err = pub.Status()
	require.NoError(t, err)
	assert.True(t, status.Published)
	assert.Equal(t, "run-1", status.RunID)
	assert.Equal(t, testWatermark, status.Watermark)
	assert.Equal(t, 2, status.PreviewProducts)
	assert.Equal(t, 1, status.ProductionProducts)
	assert.True(t, status.Promoted)
	require.NotNil(t, status.Lease)
	assert.Equal(t, "run-2", status.Lease.RunID)
}
