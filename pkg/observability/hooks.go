// Package observability lets the rest of the module report pipeline, cache
// and HTTP activity without coupling any library package to a metrics
// backend.
//
// Packages emit events through a small global registry. Whoever owns main
// decides at startup which backend, if any, receives them:
//
//	observability.SetPipelineHooks(&promHooks{reg: prometheus.DefaultRegisterer})
//	srv.ListenAndServe()
//
// Unregistered hooks default to no-ops, so library code calls them
// unconditionally:
//
//	observability.Pipeline().OnBuildStart(ctx, shape)
//	// ... generate lattice ...
//	observability.Pipeline().OnBuildComplete(ctx, shape, poreCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Events
// =============================================================================

// PipelineHooks receives events from the network pipeline. Each stage
// emits a start event before it runs and a complete event with the elapsed
// time and outcome.
type PipelineHooks interface {
	// Lattice generation
	OnBuildStart(ctx context.Context, shape [3]int)
	OnBuildComplete(ctx context.Context, shape [3]int, poreCount int, duration time.Duration, err error)

	// Coordination reduction
	OnReduceStart(ctx context.Context, coordination float64)
	OnReduceComplete(ctx context.Context, coordination float64, removed int, duration time.Duration, err error)

	// Mixture composition
	OnComposeStart(ctx context.Context, speciesCount int)
	OnComposeComplete(ctx context.Context, speciesCount int, duration time.Duration, err error)

	// Artifact rendering
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Events
// =============================================================================

// CacheHooks receives events from cache operations. The keyType identifies
// the pipeline stage: "network", "reduction" or "artifact".
type CacheHooks interface {
	// OnCacheHit fires when a lookup returns a stored value.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss fires when a lookup comes back empty.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet fires after a write of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Events
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest fires when a request arrives.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse fires after the handler writes its response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Defaults
// =============================================================================

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, [3]int) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, [3]int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnReduceStart(context.Context, float64)                               {}
func (NoopPipelineHooks) OnReduceComplete(context.Context, float64, int, time.Duration, error) {}
func (NoopPipelineHooks) OnComposeStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, int, time.Duration, error)         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)     {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = &registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// SetPipelineHooks registers pipeline hooks. Call it once at startup,
// before the first pipeline run. Passing nil keeps the current hooks.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.pipeline = h
	hooks.Unlock()
}

// SetCacheHooks registers cache hooks. Call it once at startup, before the
// first cache operation. Passing nil keeps the current hooks.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.cache = h
	hooks.Unlock()
}

// SetHTTPHooks registers HTTP hooks. Call it once at startup, before the
// server starts. Passing nil keeps the current hooks.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.http = h
	hooks.Unlock()
}

// Pipeline returns the hooks receiving pipeline events.
func Pipeline() PipelineHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.pipeline
}

// Cache returns the hooks receiving cache events.
func Cache() CacheHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.cache
}

// HTTP returns the hooks receiving HTTP events.
func HTTP() HTTPHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.http
}

// Reset restores the no-op defaults. Tests call it to shed hooks
// registered by earlier tests.
func Reset() {
	hooks.Lock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
	hooks.Unlock()
}
