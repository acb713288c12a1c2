package cmd

import (
	"github.com/pawprint/pawprint/internal/config"
	"github.com/pawprint/pawprint/pkg/brand"
	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/guard"
	"github.com/pawprint/pawprint/pkg/reconcile"
)

// pipeline bundles everything a run needs, built once from the loaded
// configuration.
type pipeline struct {
	aliases   *catalog.AliasMap
	engine    *reconcile.Engine
	checker   *guard.Checker
	overrides *catalog.Overrides
	allowlist *catalog.Allowlist
}

// newPipeline loads the curated tables and compiles the engine and
// guard checker from one alias map, so both agree on what a brand is.
func newPipeline(cfg *config.Config) (*pipeline, error) {
	aliases, err := catalog.LoadAliasMap(cfg.Paths.Aliases)
	if err != nil {
		return nil, err
	}

	canon, err := brand.New(aliases)
	if err != nil {
		return nil, err
	}

	engine, err := reconcile.New(canon, cfg.EngineOptions()...)
	if err != nil {
		return nil, err
	}

	checker, err := newChecker(cfg, aliases)
	if err != nil {
		return nil, err
	}

	overrides, err := catalog.LoadOverrides(cfg.Paths.Overrides)
	if err != nil {
		return nil, err
	}

	allowlist, err := catalog.LoadAllowlist(cfg.Paths.Allowlist)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		aliases:   aliases,
		engine:    engine,
		checker:   checker,
		overrides: overrides,
		allowlist: allowlist,
	}, nil
}

func newChecker(cfg *config.Config, aliases *catalog.AliasMap) (*guard.Checker, error) {
	return guard.New(aliases,
		guard.WithApprovedMerges(cfg.Engine.ApprovedMerges),
		guard.WithBadSlugs(cfg.Engine.BadSlugs),
	)
}
