package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pawprint/pawprint/pkg/brand"
	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/logging"
	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/score"
	"github.com/pawprint/pawprint/pkg/types"
)

// DefaultSimilarityThreshold is the minimum token similarity for two
// records sharing a key to merge without review.
const DefaultSimilarityThreshold = 0.5

// DefaultWorkers bounds the merge worker pool when no option overrides
// it.
const DefaultWorkers = 4

// Engine runs reconciliation passes. Build one with New and reuse it
// across runs; it is safe for concurrent use.
type Engine struct {
	canon     *brand.Canonicalizer
	scorer    *score.Scorer
	stop      map[string]bool
	threshold float64
	buckets   PriceBuckets
	workers   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScorer replaces the default scoring scheme.
func WithScorer(s *score.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithStopWords replaces the default stop-word set used for name slugs.
func WithStopWords(words []string) Option {
	return func(e *Engine) { e.stop = normalize.StopSet(words) }
}

// WithSimilarityThreshold sets the collision threshold. Values outside
// (0, 1] keep the default.
func WithSimilarityThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t <= 1 {
			e.threshold = t
		}
	}
}

// WithPriceBuckets sets the price-per-unit bucket thresholds.
func WithPriceBuckets(b PriceBuckets) Option {
	return func(e *Engine) {
		if b.Low > 0 && b.High > b.Low {
			e.buckets = b
		}
	}
}

// WithWorkers bounds the merge worker pool.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Engine around a compiled brand canonicalizer.
func New(canon *brand.Canonicalizer, opts ...Option) (*Engine, error) {
	if canon == nil {
		return nil, errors.NewValidationError("canonicalizer", nil, "canonicalizer is required")
	}
	e := &Engine{
		canon:     canon,
		scorer:    score.New(score.DefaultWeights()),
		stop:      normalize.StopSet(normalize.DefaultStopWords()),
		threshold: DefaultSimilarityThreshold,
		buckets:   DefaultPriceBuckets(),
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Input is everything a reconciliation pass reads. All tables are as of
// the watermark; the engine never reaches outside this snapshot.
type Input struct {
	Candidates []catalog.Candidate
	Overrides  *catalog.Overrides
	Allowlist  *catalog.Allowlist

	// Watermark bounds the snapshot: candidates last seen after it are
	// excluded from the run. Zero means no bound.
	Watermark time.Time

	// ApprovedMerges lists product keys whose collisions a human has
	// confirmed as the same product; their groups merge without
	// clustering.
	ApprovedMerges []string

	RunID string
}

// Run executes one reconciliation pass over the snapshot.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	logger := logging.FromContext(ctx)
	started := time.Now().UTC()

	result := &Result{
		AliasVersion: e.canon.Version(),
		Watermark:    in.Watermark,
		RunID:        in.RunID,
		StartedAt:    started,
	}
	result.Stats.CandidatesIn = len(in.Candidates)

	records := e.annotate(in)
	result.Stats.CandidatesUsed = len(records)
	for _, r := range records {
		if r.Brand.Confidence == types.ConfidenceLow {
			result.Stats.LowConfidenceBrands++
		}
		if r.Brand.Repaired {
			result.Stats.RepairedBrands++
		}
	}

	groups := make(map[string][]scored)
	for _, r := range records {
		groups[r.Key] = append(groups[r.Key], r)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	approved := make(map[string]bool, len(in.ApprovedMerges))
	for _, key := range in.ApprovedMerges {
		approved[key] = true
	}

	products, collisions, err := e.mergeAll(ctx, keys, groups, approved)
	if err != nil {
		return nil, err
	}

	result.Collisions = collisions
	result.Stats.Collisions = len(collisions)

	result.OverrideConflicts = applyOverrides(products, in.Overrides, in.Watermark)
	result.Stats.OverrideConflicts = len(result.OverrideConflicts)

	for i := range products {
		products[i].CompletenessGrade = gradeProduct(&products[i])
		products[i].AllowlistStatus = in.Allowlist.State(products[i].BrandSlug)
	}

	products.Sort()
	result.Products = products
	result.Stats.Products = len(products)
	result.FinishedAt = time.Now().UTC()

	logger.Info().
		Str("run_id", in.RunID).
		Int("candidates", result.Stats.CandidatesIn).
		Int("products", result.Stats.Products).
		Int("collisions", result.Stats.Collisions).
		Msg("reconciliation pass complete")

	return result, nil
}

// annotate canonicalizes, keys, and scores every in-snapshot candidate.
func (e *Engine) annotate(in Input) []scored {
	records := make([]scored, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if !in.Watermark.IsZero() && c.LastSeenAt.After(in.Watermark) {
			continue
		}
		res := e.canon.Canonicalize(c.BrandRaw, c.ProductNameRaw)
		records = append(records, scored{
			Candidate: c,
			Brand:     res,
			Key:       BuildKey(res.BrandSlug, res.CleanedName, c.Form(), e.stop),
			Score:     e.scorer.Score(&c),
		})
	}
	return records
}

// mergeAll merges every key group across the worker pool. Each key is
// independent; output is combined and re-sorted, so parallelism never
// changes the result.
func (e *Engine) mergeAll(ctx context.Context, keys []string, groups map[string][]scored, approved map[string]bool) (catalog.Products, []Collision, error) {
	var (
		mu         sync.Mutex
		products   catalog.Products
		collisions []Collision
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.ErrCanceled
			}

			merged, collision := e.mergeKey(key, groups[key], approved[key])

			mu.Lock()
			products = append(products, merged...)
			if collision != nil {
				collisions = append(collisions, *collision)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	products.Sort()
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].Key < collisions[j].Key })
	return products, collisions, nil
}

// mergeKey merges one key group. Groups whose names cluster apart stay
// separate under suffixed keys and produce a collision entry, unless
// the key is on the approved merge list.
func (e *Engine) mergeKey(key string, group []scored, approved bool) (catalog.Products, *Collision) {
	if approved || len(group) == 1 {
		return catalog.Products{mergeGroup(key, group, e.buckets)}, nil
	}

	clusters, minSim := clusterGroup(group, e.threshold)
	if len(clusters) == 1 {
		return catalog.Products{mergeGroup(key, group, e.buckets)}, nil
	}

	out := make(catalog.Products, 0, len(clusters))
	for i, cluster := range clusters {
		out = append(out, mergeGroup(SuffixKey(key, i+1), cluster, e.buckets))
	}
	return out, &Collision{
		Key:        key,
		Sources:    collisionSources(clusters),
		Similarity: minSim,
		Clusters:   len(clusters),
	}
}
