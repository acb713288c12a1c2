package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/candidates", cfg.Paths.Candidates)
	assert.Equal(t, "published", cfg.Paths.Output)
	assert.Equal(t, 100, cfg.Engine.Weights.Kcal)
	assert.Equal(t, 0.5, cfg.Engine.SimilarityThreshold)
	assert.Equal(t, 5.0, cfg.Engine.PriceBuckets.Low)
	assert.Equal(t, 15.0, cfg.Engine.PriceBuckets.High)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.NotEmpty(t, cfg.Engine.StopWords)
	assert.False(t, cfg.AllowPending)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pawprint.yaml")
	content := `
paths:
  candidates: /feeds
  output: /snapshots
engine:
  similarity_threshold: 0.7
  workers: 12
  weights:
    kcal: 80
    trust:
      zooplus.de: 5
      fressnapf.de: 3
  approved_merges:
    - acme::adult::dry
allow_pending: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/feeds", cfg.Paths.Candidates)
	assert.Equal(t, "/snapshots", cfg.Paths.Output)
	assert.Equal(t, 0.7, cfg.Engine.SimilarityThreshold)
	assert.Equal(t, 12, cfg.Engine.Workers)
	assert.Equal(t, 80, cfg.Engine.Weights.Kcal)
	assert.Equal(t, 5, cfg.Engine.Weights.Trust["zooplus.de"])
	assert.Equal(t, []string{"acme::adult::dry"}, cfg.Engine.ApprovedMerges)
	assert.True(t, cfg.AllowPending)

	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Engine.Weights.Protein)
	assert.Equal(t, "data/aliases.yaml", cfg.Paths.Aliases)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEngineOptions(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.EngineOptions(), 5)
}
