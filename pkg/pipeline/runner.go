package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/observability"
)

// Runner encapsulates execution with caching. It holds no per-run state;
// several goroutines may share one Runner.
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

// Execute runs layout then render for every requested format. Formats
// found in the cache are returned without laying out; if any format misses,
// the layout runs once and only the missing formats are painted.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	res = &Result{
		DesignHash: opts.Table.Hash(),
		Artifacts:  make(map[string][]byte, len(opts.Formats)),
	}

	var missing []string
	for _, f := range opts.Formats {
		if data, ok := r.lookup(ctx, res.DesignHash, f, opts); ok {
			res.Artifacts[f] = data
			res.CacheInfo.Hits = append(res.CacheInfo.Hits, f)
			continue
		}
		missing = append(missing, f)
	}
	res.CacheInfo.Misses = missing
	if len(missing) == 0 {
		r.Logger.Debug("all formats cached", "formats", opts.Formats)
		return res, nil
	}

	layoutStart := time.Now()
	lay, err := r.Layout(opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Layout = lay
	res.Stats.Elements = len(lay.Elements)
	res.Stats.LayoutTime = time.Since(layoutStart)
	r.Logger.Debug("computed layout",
		"viewport", opts.Viewport(),
		"scale", lay.Fit.Scale,
		"elements", len(lay.Elements),
		"duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	sc := NewScene(lay, *opts.State)
	for _, f := range missing {
		data, err := RenderFormat(ctx, sc, f, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		res.Artifacts[f] = data
		r.store(ctx, res.DesignHash, f, data, opts)
	}
	res.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Debug("rendered outputs", "formats", missing, "duration", res.Stats.RenderTime)

	return res, nil
}

// Layout runs a single layout pass for validated opts.
func (r *Runner) Layout(opts Options) (*layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	engOpts := []layout.Option{layout.WithLogger(r.Logger)}
	if opts.Measurer != nil {
		engOpts = append(engOpts, layout.WithMeasurer(opts.Measurer))
	}
	if opts.PixelSnap {
		engOpts = append(engOpts, layout.WithPixelSnap())
	}
	eng, err := layout.New(opts.Table, engOpts...)
	if err != nil {
		return nil, err
	}
	return eng.Layout(opts.Viewport()), nil
}

func (r *Runner) lookup(ctx context.Context, designHash, format string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	key := r.Keyer.FrameKey(designHash, opts.FrameKeyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "format", format, "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "frame:"+format)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, "frame:"+format)
	return nil, false
}

func (r *Runner) store(ctx context.Context, designHash, format string, data []byte, opts Options) {
	key := r.Keyer.FrameKey(designHash, opts.FrameKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "frame:"+format, len(data))
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
