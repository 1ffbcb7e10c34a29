package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
// When opts.Roots is empty the source's default roots are used.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	snap, hit, err := r.LoadWithCacheInfo(ctx, src, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Persons = len(snap.Persons)
	result.CacheInfo.SnapshotHit = hit

	if len(opts.Roots) == 0 {
		opts.Roots = snap.Roots
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	l, hash, layoutHit, err := r.layoutWithCache(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.SnapshotHash = hash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Generations = len(l.Generations)
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.EdgeCount = len(l.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"roots", l.Roots,
		"generations", result.Stats.Generations,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// LoadWithCacheInfo loads a snapshot and reports whether it came from cache.
// Only sources implementing [source.Cacheable] are cached.
//
// The returned snapshot is flattened (see [family.Snapshot.Flatten]) and
// carries the default roots of a [source.RootProvider], so a cached snapshot
// equals a freshly loaded one.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src source.Source, refresh bool) (*family.Snapshot, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.String())
	start := time.Now()

	var key string
	if c, ok := src.(source.Cacheable); ok {
		key = r.Keyer.SnapshotKey(c.CacheKey())
		if !refresh {
			if snap, ok := r.cachedSnapshot(ctx, key); ok {
				hooks.OnLoadComplete(ctx, src.String(), len(snap.Persons), time.Since(start), nil)
				return snap, true, nil
			}
		}
	}

	snap, err := src.Load(ctx)
	hooks.OnLoadComplete(ctx, src.String(), personCount(snap), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	snap = withDefaultRoots(snap.Flatten(), src)

	p, u, l := snap.Counts()
	r.Logger.Info("loaded snapshot",
		"source", src.String(),
		"persons", p,
		"unions", u,
		"links", l,
		"duration", time.Since(start))

	if key != "" {
		if data, err := graph.MarshalTree(graph.FromSnapshot(snap)); err == nil {
			r.set(ctx, "snapshot", key, data, cache.TTLSnapshot)
		}
	}
	return snap, false, nil
}

// Load is a convenience wrapper that discards the cache hit info.
func (r *Runner) Load(ctx context.Context, src source.Source, refresh bool) (*family.Snapshot, error) {
	snap, _, err := r.LoadWithCacheInfo(ctx, src, refresh)
	return snap, err
}

func (r *Runner) cachedSnapshot(ctx context.Context, key string) (*family.Snapshot, bool) {
	data, ok := r.get(ctx, "snapshot", key)
	if !ok {
		return nil, false
	}
	tree, err := graph.UnmarshalTree(data)
	if err != nil {
		return nil, false
	}
	snap, err := tree.Snapshot()
	if err != nil {
		return nil, false
	}
	return snap, true
}

// withDefaultRoots fills in the source's roots when the snapshot has none.
// The source's snapshot is never modified.
func withDefaultRoots(snap *family.Snapshot, src source.Source) *family.Snapshot {
	if len(snap.Roots) > 0 {
		return snap
	}
	rp, ok := src.(source.RootProvider)
	if !ok {
		return snap
	}
	roots := rp.DefaultRoots()
	if len(roots) == 0 {
		return snap
	}
	cp := *snap
	cp.Roots = append([]string(nil), roots...)
	return &cp
}

func personCount(s *family.Snapshot) int {
	if s == nil {
		return 0
	}
	return len(s.Persons)
}

// =============================================================================
// Layout
// =============================================================================

// GenerateLayoutWithCacheInfo computes a layout with caching and reports
// whether it came from cache. The key covers the snapshot content and every
// layout option, so edited data never returns a stale layout.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, snap *family.Snapshot, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, err
	}
	l, _, hit, err := r.layoutWithCache(ctx, snap, opts)
	return l, hit, err
}

// GenerateLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, snap *family.Snapshot, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, snap, opts)
	return l, err
}

func (r *Runner) layoutWithCache(ctx context.Context, snap *family.Snapshot, opts Options) (graph.Layout, string, bool, error) {
	if len(opts.Roots) == 0 {
		return graph.Layout{}, "", false, errors.New(errors.ErrCodeInvalidRoot, "no root person given")
	}

	snapData, err := graph.MarshalTree(graph.FromSnapshot(snap))
	if err != nil {
		return graph.Layout{}, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash snapshot")
	}
	snapHash := cache.Hash(snapData)
	key := r.Keyer.LayoutKey(snapHash, opts.LayoutKeyOpts())

	if data, ok := r.get(ctx, "layout", key); ok {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			return cached, snapHash, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Roots, personCount(snap))
	start := time.Now()
	l, err := ComputeLayout(snap, opts)
	hooks.OnLayoutComplete(ctx, opts.Roots, len(l.Nodes), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, snapHash, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, snapHash, false, nil
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from cache. Only missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, snap *family.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	// The nodelink drawing depends on the snapshot, not only on the layout.
	layoutHash := cache.Hash(layoutData)
	if snap != nil && opts.VizType == graph.VizTypeNodelink {
		if d, err := graph.MarshalTree(graph.FromSnapshot(snap)); err == nil {
			layoutHash = cache.Hash(append(layoutData, d...))
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, "artifact", key); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, snap, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, snap *family.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Cache helpers
// =============================================================================

// get reads key, treating backend errors as misses.
func (r *Runner) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", kind, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

// set writes key. Failures are logged; the pipeline never fails on cache
// writes.
func (r *Runner) set(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}
