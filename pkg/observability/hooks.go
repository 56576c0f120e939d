// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through interfaces with no-op defaults; a binary
// that wants metrics registers its own implementations at startup. Nothing
// in the layout or render path depends on a metrics backend.
//
// # Event categories
//
//   - [LayoutHooks]: one event per layout pass (viewport, scale, element count)
//   - [PreviewHooks]: resize and paint calls on the preview shell
//   - [PipelineHooks]: render runs, per requested format set
//   - [CacheHooks]: frame cache hits, misses and writes
//   - [ServerHooks]: requests served by the preview HTTP server
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := eng.Layout(vp)
//	observability.Layout().OnLayout(vp.Width, vp.Height, res.Fit.Scale, len(res.Elements), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives one event per layout pass. Degenerate passes report
// a zero scale and no elements.
type LayoutHooks interface {
	OnLayout(width, height, scale float64, elements int, duration time.Duration)
}

// PreviewHooks receives events from the preview shell.
type PreviewHooks interface {
	OnResize(width, height float64)
	OnPaint(elements int, duration time.Duration, err error)
}

// PipelineHooks receives events from render runs.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the preview HTTP server.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(float64, float64, float64, int, time.Duration) {}

// NoopPreviewHooks is a no-op implementation of PreviewHooks.
type NoopPreviewHooks struct{}

func (NoopPreviewHooks) OnResize(float64, float64)         {}
func (NoopPreviewHooks) OnPaint(int, time.Duration, error) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	previewHooks  PreviewHooks  = NoopPreviewHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetPreviewHooks registers custom preview hooks. Nil is ignored.
func SetPreviewHooks(h PreviewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		previewHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Preview returns the registered preview hooks.
func Preview() PreviewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return previewHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults. Tests call it in
// cleanup after registering recorders.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	previewHooks = NoopPreviewHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
