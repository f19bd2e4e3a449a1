package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/porelab/porenet/pkg/cache"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/observability"
	"github.com/porelab/porenet/pkg/topo"
)

// Runner executes pipeline stages and caches their results, so the CLI
// and the API share one caching policy.
//
// A Runner holds no per-run state; the same instance may serve many
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching via NullCache,
// a nil keyer falls back to DefaultKeyer, a nil logger to log.Default.
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

// Execute runs the complete build → reduce → compose → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	obs := observability.Pipeline()

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	obs.OnBuildStart(ctx, opts.Shape)
	net, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		obs.OnBuildComplete(ctx, opts.Shape, 0, time.Since(buildStart), err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Network = net
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.BuildHit = buildHit
	obs.OnBuildComplete(ctx, opts.Shape, net.PoreCount(), result.Stats.BuildTime, nil)

	r.Logger.Info("built network",
		"pores", net.PoreCount(),
		"throats", net.ThroatCount(),
		"duration", result.Stats.BuildTime)

	// Content hash of the built network, input to the reduction key
	netData, err := marshalNetwork(net)
	if err != nil {
		return nil, fmt.Errorf("serialize network: %w", err)
	}
	netHash := cache.Hash(netData)

	// Stage 2: Reduce
	if opts.ShouldReduce() {
		reduceStart := time.Now()
		obs.OnReduceStart(ctx, opts.Coordination)
		reduced, plan, reduceHit, err := r.ReduceWithCacheInfo(ctx, net, netHash, opts)
		if err != nil {
			obs.OnReduceComplete(ctx, opts.Coordination, 0, time.Since(reduceStart), err)
			return nil, fmt.Errorf("reduce: %w", err)
		}
		result.Network = reduced
		result.Plan = plan
		result.Stats.ReduceTime = time.Since(reduceStart)
		result.CacheInfo.ReduceHit = reduceHit
		net = reduced
		obs.OnReduceComplete(ctx, opts.Coordination, len(plan.Remove), result.Stats.ReduceTime, nil)

		if netData, err = marshalNetwork(net); err != nil {
			return nil, fmt.Errorf("serialize reduced network: %w", err)
		}
		netHash = cache.Hash(netData)

		r.Logger.Info("reduced network",
			"removed", len(plan.Remove),
			"achieved", plan.Achieved,
			"duration", result.Stats.ReduceTime)
	}
	result.NetworkHash = netHash
	result.Stats.PoreCount = net.PoreCount()
	result.Stats.ThroatCount = net.ThroatCount()

	result.Health = topo.CheckHealth(net)
	if !result.Health.OK() {
		r.Logger.Warn("network health check failed",
			"clusters", len(result.Health.Clusters),
			"isolated", len(result.Health.IsolatedPores))
	}

	// Stage 3: Compose
	if opts.ShouldCompose() {
		composeStart := time.Now()
		obs.OnComposeStart(ctx, len(opts.Species))
		m, err := Compose(net.PoreCount(), opts)
		if err != nil {
			obs.OnComposeComplete(ctx, len(opts.Species), time.Since(composeStart), err)
			return nil, fmt.Errorf("compose: %w", err)
		}
		result.Mixture = m
		result.Stats.ComposeTime = time.Since(composeStart)
		obs.OnComposeComplete(ctx, len(opts.Species), result.Stats.ComposeTime, nil)

		r.Logger.Info("composed mixture",
			"species", m.SpeciesCount(),
			"duration", result.Stats.ComposeTime)
	}

	// Stage 4: Render
	renderStart := time.Now()
	obs.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, net, netHash, opts)
	if err != nil {
		obs.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	obs.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the lattice with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*network.Network, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.NetworkKey(opts.NetworkKeyOpts())

	// Refresh skips the lookup but still writes below.
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if net, err := unmarshalNetwork(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "network")
				return net, true, nil // hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "network")

	net, err := Build(opts)
	if err != nil {
		return nil, false, err
	}

	// Store for the next run.
	if data, err := marshalNetwork(net); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLNetwork) == nil {
			observability.Cache().OnCacheSet(ctx, "network", len(data))
		}
	}

	return net, false, nil // miss
}

// Build runs BuildWithCacheInfo and drops the hit flag.
func (r *Runner) Build(ctx context.Context, opts Options) (*network.Network, error) {
	net, _, err := r.BuildWithCacheInfo(ctx, opts)
	return net, err
}

// reducedDoc is the cached form of a reduce stage result: the plan along
// with the reduced network, so cache hits restore both.
type reducedDoc struct {
	Plan    *topo.Plan      `json:"plan"`
	Network json.RawMessage `json:"network"`
}

// ReduceWithCacheInfo reduces the network with caching and returns cache
// hit info. On a cache miss the input network is trimmed in place and
// returned; on a hit the cached reduced network is returned instead and
// the input is left untouched. netHash is the content hash of net and may
// be empty to have it computed.
func (r *Runner) ReduceWithCacheInfo(ctx context.Context, net *network.Network, netHash string, opts Options) (*network.Network, *topo.Plan, bool, error) {
	if err := opts.ValidateForReduce(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	if netHash == "" {
		data, err := marshalNetwork(net)
		if err != nil {
			return nil, nil, false, fmt.Errorf("serialize network: %w", err)
		}
		netHash = cache.Hash(data)
	}
	cacheKey := r.Keyer.ReductionKey(netHash, opts.ReductionKeyOpts())

	// Refresh skips the lookup but still writes below.
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc reducedDoc
			if json.Unmarshal(data, &doc) == nil && doc.Plan != nil {
				if cached, err := unmarshalNetwork(doc.Network); err == nil {
					observability.Cache().OnCacheHit(ctx, "reduction")
					return cached, doc.Plan, true, nil // hit
				}
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "reduction")

	plan, err := Reduce(net, opts)
	if err != nil {
		return nil, nil, false, err
	}

	// Store plan and trimmed network together for the next run.
	if netData, err := marshalNetwork(net); err == nil {
		if data, err := json.Marshal(reducedDoc{Plan: plan, Network: netData}); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLReduction) == nil {
				observability.Cache().OnCacheSet(ctx, "reduction", len(data))
			}
		}
	}

	return net, plan, false, nil // miss
}

// Reduce runs ReduceWithCacheInfo and drops the hit flag.
func (r *Runner) Reduce(ctx context.Context, net *network.Network, opts Options) (*network.Network, *topo.Plan, error) {
	reduced, plan, _, err := r.ReduceWithCacheInfo(ctx, net, "", opts)
	return reduced, plan, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. netHash is the content hash of net and may be empty to have
// it computed.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, net *network.Network, netHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if netHash == "" {
		data, err := marshalNetwork(net)
		if err != nil {
			return nil, false, fmt.Errorf("serialize network for cache key: %w", err)
		}
		netHash = cache.Hash(data)
	}

	// A run counts as a hit only when every requested format is cached.
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(netHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // all hits
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(net, opts)
	if err != nil {
		return nil, false, err
	}

	// Store each format under its own key so partial reuse works later.
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(netHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // miss
}

// Render runs RenderWithCacheInfo and drops the hit flag.
func (r *Runner) Render(ctx context.Context, net *network.Network, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, net, "", opts)
	return artifacts, err
}

// Close closes the underlying cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger gives opts the runner's logger when the caller set none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
