package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawprint/pawprint/pkg/types"
)

func TestCandidateForm(t *testing.T) {
	tests := []struct {
		raw      string
		expected types.Form
	}{
		{"dry", types.FormDry},
		{"kibble", types.FormDry},
		{"wet", types.FormWet},
		{"canned", types.FormWet},
		{"raw", types.FormRaw},
		{"freeze-dried", types.FormFreeze},
		{"", types.FormAny},
		{"mystery", types.FormAny},
	}
	for _, tt := range tests {
		c := Candidate{FormRaw: tt.raw}
		assert.Equal(t, tt.expected, c.Form(), "form_raw=%q", tt.raw)
	}
}

func TestNormalizeCountries(t *testing.T) {
	got := NormalizeCountries([]string{"DE", "FR", "DE", "", "AT"})
	assert.Equal(t, []string{"AT", "DE", "FR"}, got)
}

func TestAliasMapMatchOrder(t *testing.T) {
	m := AliasMap{
		Version: "v1",
		Entries: []AliasEntry{
			{Phrase: "Royal", BrandSlug: "royal"},
			{Phrase: "Royal Canin", BrandSlug: "royal_canin"},
			{Phrase: "Canine", Denylisted: true},
		},
	}

	order := m.MatchOrder()
	require.Len(t, order, 2)
	assert.Equal(t, "Royal Canin", order[0].Phrase, "longest alias must come first")
	assert.Equal(t, []string{"canine"}, m.Denylist())
}

func TestAliasMapStems(t *testing.T) {
	m := AliasMap{
		Version: "v1",
		Entries: []AliasEntry{
			{Phrase: "Royal Canin", BrandSlug: "royal_canin"},
			{Phrase: "Hills Science Plan", BrandSlug: "hills", BrandLine: "science_plan"},
			{Phrase: "Purina", BrandSlug: "purina"},
		},
	}

	stems := m.Stems()
	require.Len(t, stems, 2)
	assert.Equal(t, "Hills", stems[0].Stem)
	assert.Equal(t, "Science Plan", stems[0].Complement)
	assert.Equal(t, "Royal", stems[1].Stem)
	assert.Equal(t, "Canin", stems[1].Complement)
}

// Entries without an explicit brand_slug derive it from the phrase, the
// same fallback direct alias matching uses.
func TestAliasMapStemsDerivedSlug(t *testing.T) {
	m := AliasMap{
		Version: "v1",
		Entries: []AliasEntry{{Phrase: "Royal Canin"}},
	}

	stems := m.Stems()
	require.Len(t, stems, 1)
	assert.Equal(t, "royal_canin", stems[0].BrandSlug)
}

func TestOverrideActive(t *testing.T) {
	watermark := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	created := watermark.AddDate(0, -1, 0)
	revokedBefore := watermark.AddDate(0, 0, -1)
	revokedAfter := watermark.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		override Override
		expected bool
	}{
		{"active", Override{CreatedAt: created}, true},
		{"created after watermark", Override{CreatedAt: watermark.Add(time.Hour)}, false},
		{"revoked before watermark", Override{CreatedAt: created, RevokedAt: &revokedBefore}, false},
		{"revoked after watermark", Override{CreatedAt: created, RevokedAt: &revokedAfter}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.override.Active(watermark))
		})
	}
}

// A zero watermark means no bound: creation time never disqualifies an
// override, revocation still does.
func TestOverrideActiveZeroWatermark(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	revoked := created.AddDate(0, 0, 10)

	assert.True(t, (&Override{CreatedAt: created}).Active(time.Time{}))
	assert.False(t, (&Override{CreatedAt: created, RevokedAt: &revoked}).Active(time.Time{}))
}

func TestOverridesForKeyAndBrand(t *testing.T) {
	watermark := time.Now()
	created := watermark.Add(-time.Hour)
	table := Overrides{
		Entries: []Override{
			{ProductKey: "acme::adult::dry", Reason: "fix kcal", CreatedAt: created},
			{BrandSlug: "acme", Reason: "brand line", CreatedAt: created},
			{ProductKey: "other::adult::dry", Reason: "unrelated", CreatedAt: created},
		},
	}

	byKey := table.ForKey("acme::adult::dry", watermark)
	require.Len(t, byKey, 1)
	assert.Equal(t, "fix kcal", byKey[0].Reason)

	byBrand := table.ForBrand("acme", watermark)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "brand line", byBrand[0].Reason)
}

func TestAllowlistState(t *testing.T) {
	a := &Allowlist{
		Version: "v3",
		Brands: map[string]types.AllowlistState{
			"royal_canin": types.AllowlistActive,
			"acme":        types.AllowlistPaused,
		},
	}

	assert.Equal(t, types.AllowlistActive, a.State("royal_canin"))
	assert.Equal(t, types.AllowlistPaused, a.State("acme"))
	assert.Equal(t, types.AllowlistPending, a.State("unknown_brand"))

	var nilList *Allowlist
	assert.Equal(t, types.AllowlistPending, nilList.State("anything"))
}

func TestLoadCandidatesFromDir(t *testing.T) {
	dir := t.TempDir()

	feedA := `candidates:
  - source_id: zooplus.de
    brand_raw: "Royal Canin"
    product_name_raw: "Adult 15kg"
    form_raw: dry
    kcal_per_100g: 365
    first_seen_at: 2026-07-01T00:00:00Z
    last_seen_at: 2026-07-20T00:00:00Z
`
	feedB := `candidates:
  - source_id: chewy.com
    brand_raw: "Royal"
    product_name_raw: "Canin Adult 15kg"
    form_raw: dry
    first_seen_at: 2026-07-02T00:00:00Z
    last_seen_at: 2026-07-21T00:00:00Z
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(feedB), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(feedA), 0o644))

	candidates, err := LoadCandidates(dir)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Files load in sorted path order regardless of creation order.
	assert.Equal(t, types.SourceID("zooplus.de"), candidates[0].SourceID)
	assert.Equal(t, types.SourceID("chewy.com"), candidates[1].SourceID)
	require.NotNil(t, candidates[0].KcalPer100g)
	assert.Equal(t, 365.0, *candidates[0].KcalPer100g)
}

func TestLoadAliasMapRequiresVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - phrase: Purina\n    brand_slug: purina\n"), 0o644))

	_, err := LoadAliasMap(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestLoadMissingTables(t *testing.T) {
	dir := t.TempDir()

	overrides, err := LoadOverrides(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, overrides.Entries)

	allowlist, err := LoadAllowlist(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, types.AllowlistPending, allowlist.State("any"))

	published, err := LoadProducts(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Nil(t, published)
}

func TestProductsSortAndIndex(t *testing.T) {
	ps := Products{
		{Key: "b::x::dry", BrandSlug: "b"},
		{Key: "a::y::wet", BrandSlug: "a"},
		{Key: "a::x::dry", BrandSlug: "a"},
	}
	ps.Sort()

	assert.Equal(t, []string{"a::x::dry", "a::y::wet", "b::x::dry"}, ps.Keys())
	assert.Equal(t, []string{"a", "b"}, ps.Brands())
	assert.Equal(t, "a", ps.ByKey()["a::y::wet"].BrandSlug)
}
