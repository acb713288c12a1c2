package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawprint/pawprint/pkg/brand"
	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

func testAliases() *catalog.AliasMap {
	return &catalog.AliasMap{
		Version: "v3",
		Entries: []catalog.AliasEntry{
			{Phrase: "Royal Canin", BrandSlug: "royal_canin"},
			{Phrase: "Acme", BrandSlug: "acme"},
			{Phrase: "Canine", Denylisted: true},
		},
	}
}

func testChecker(t *testing.T, opts ...Option) *Checker {
	t.Helper()
	checker, err := New(testAliases(), opts...)
	require.NoError(t, err)
	return checker
}

func TestCheckCleanSet(t *testing.T) {
	checker := testChecker(t)

	report := checker.Check(catalog.Products{
		{Key: "royal_canin::adult-15kg::dry", BrandSlug: "royal_canin", Name: "Adult 15kg"},
		{Key: "acme::puppy-chicken::wet", BrandSlug: "acme", Name: "Puppy Chicken"},
	})

	assert.True(t, report.Clean())
	assert.Zero(t, report.Total())
	require.Len(t, report.Results, 4)
}

func TestSplitBrandGuard(t *testing.T) {
	checker := testChecker(t)

	report := checker.Check(catalog.Products{
		{Key: "royal::canin-adult-15kg::dry", BrandSlug: "royal", Name: "Canin Adult 15kg"},
	})

	assert.False(t, report.Clean())

	split, ok := report.Result(RuleSplitBrand)
	require.True(t, ok)
	assert.Equal(t, 1, split.ViolationCount)
	require.Len(t, split.SampleViolations, 1)
	assert.Equal(t, "royal::canin-adult-15kg::dry", split.SampleViolations[0].Key)

	// The bare stem slug also trips the incomplete-slug rule.
	partial, ok := report.Result(RuleIncompleteSlug)
	require.True(t, ok)
	assert.Equal(t, 1, partial.ViolationCount)
}

// The defect disappears once reconciliation has repaired the split, so
// guards and canonicalizer agree on the alias table.
func TestSplitBrandGuardAfterReconciliation(t *testing.T) {
	canon, err := brand.New(testAliases())
	require.NoError(t, err)
	engine, err := reconcile.New(canon)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), reconcile.Input{
		Candidates: []catalog.Candidate{
			{
				SourceID:       "siteA.com/1",
				BrandRaw:       "Royal",
				ProductNameRaw: "Canin Adult 15kg",
				FormRaw:        "dry",
				LastSeenAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Watermark: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	report := testChecker(t).Check(result.Products)
	assert.True(t, report.Clean())
}

func TestOrphanFragmentGuard(t *testing.T) {
	checker := testChecker(t)

	report := checker.Check(catalog.Products{
		// Fragment of royal_canin under an unrelated brand.
		{Key: "acme::canin-mix::dry", BrandSlug: "acme", Name: "Canin Mix"},
		// Denylisted phrase is exempt.
		{Key: "acme::canine-care::dry", BrandSlug: "acme", Name: "Canine Care"},
	})

	orphan, ok := report.Result(RuleOrphanFragment)
	require.True(t, ok)
	assert.Equal(t, 1, orphan.ViolationCount)
	assert.Equal(t, "acme::canin-mix::dry", orphan.SampleViolations[0].Key)
}

func TestOrphanFragmentGuardDerivedSlug(t *testing.T) {
	// Alias entries without an explicit brand_slug derive the slug from
	// the full phrase; the owning-brand exemption must still hold, or
	// every correctly reconciled product of that brand whose name keeps
	// the fragment would be flagged.
	aliases := &catalog.AliasMap{
		Version: "v1",
		Entries: []catalog.AliasEntry{{Phrase: "Royal Canin"}},
	}
	checker, err := New(aliases)
	require.NoError(t, err)

	report := checker.Check(catalog.Products{
		{Key: "royal_canin::canin-club-adult::dry", BrandSlug: "royal_canin", Name: "Canin Club Adult"},
	})

	orphan, ok := report.Result(RuleOrphanFragment)
	require.True(t, ok)
	assert.Zero(t, orphan.ViolationCount)
}

func TestKeyCollisionGuard(t *testing.T) {
	products := catalog.Products{
		{Key: "acme::adult::dry", BrandSlug: "acme", Name: "Adult"},
		{Key: "acme::adult::dry#2", BrandSlug: "acme", Name: "Premium Complete Adult New"},
	}

	report := testChecker(t).Check(products)
	collision, ok := report.Result(RuleKeyCollision)
	require.True(t, ok)
	assert.Equal(t, 2, collision.ViolationCount)

	// An approved merge record silences the rule for that key.
	approved := testChecker(t, WithApprovedMerges([]string{"acme::adult::dry"}))
	report = approved.Check(products)
	collision, ok = report.Result(RuleKeyCollision)
	require.True(t, ok)
	assert.Zero(t, collision.ViolationCount)
}

func TestSampleLimit(t *testing.T) {
	checker := testChecker(t, WithBadSlugs([]string{"bogus"}), WithSampleLimit(2))

	products := make(catalog.Products, 5)
	for i := range products {
		products[i] = catalog.Product{
			Key:       reconcile.SuffixKey("bogus::adult::dry", i+1),
			BrandSlug: "bogus",
			Name:      "Adult",
		}
	}

	report := checker.Check(products)
	partial, ok := report.Result(RuleIncompleteSlug)
	require.True(t, ok)
	assert.Equal(t, 5, partial.ViolationCount)
	assert.Len(t, partial.SampleViolations, 2)
}
