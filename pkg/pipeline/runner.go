package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funkyheatmap/pkg/cache"
	"github.com/matzehuels/funkyheatmap/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
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

// Execute runs the complete load → build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	// Stage 1: Load
	start := time.Now()
	hooks.OnLoadStart(ctx, opts.source())
	in, err := Load(ctx, opts)
	rows := 0
	if in != nil {
		rows = in.Table.Len()
	}
	hooks.OnLoadComplete(ctx, opts.source(), rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result := &Result{InputHash: in.Hash}
	result.Stats.Rows = rows
	result.Stats.LoadTime = time.Since(start)

	// Stage 2: Build
	start = time.Now()
	h, err := Build(in, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, len(h.Columns), len(h.Legends), time.Since(start), nil)
	result.Heatmap = h
	result.Stats.BuildTime = time.Since(start)
	result.Stats.Columns = len(h.Columns)
	result.Stats.Legends = len(h.Legends)

	r.Logger.Info("built heatmap",
		"rows", rows,
		"columns", len(h.Columns),
		"legends", len(h.Legends),
		"warnings", len(h.Diagnostics().Items()))

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, in.Hash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("artifacts from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 3: Layout
	start = time.Now()
	hooks.OnLayoutStart(ctx, rows, len(h.Columns))
	res, order, err := Layout(ctx, h, opts)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Order = order
	result.Stats.LayoutTime = time.Since(start)

	r.Logger.Info("computed layout",
		"width", res.Geometry.Width,
		"height", res.Geometry.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	start = time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, res, h, order, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(in.Hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// cached returns every requested artifact from the cache, or false if any
// one is missing.
func (r *Runner) cached(ctx context.Context, inputHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
