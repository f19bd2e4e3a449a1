// Package pipeline provides the network construction pipeline shared by
// the CLI and the HTTP API.
//
// Centralizing the build → reduce → compose → render sequence here keeps
// the two entry points consistent: same defaults, same validation, same
// cache keys.
//
// # Stages
//
// The pipeline consists of four stages:
//
//  1. Build: generate the cubic lattice
//  2. Reduce: trim throats to the target coordination number
//  3. Compose: attach species and resolve mole fractions
//  4. Render: produce artifacts (JSON, VTK, CSV, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// A [Runner] caches stage results between runs:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	opts := pipeline.Options{
//	    Shape:        [3]int{10, 10, 10},
//	    Coordination: 4.5,
//	    Formats:      []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["json"]
//
// Stages also run standalone:
//
//	// Build only
//	net, err := pipeline.Build(opts)
//
//	// Reduce an existing network
//	plan, err := pipeline.Reduce(net, opts)
//
//	// Render with an existing network
//	artifacts, err := pipeline.Render(ctx, net, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/porelab/porenet/pkg/cache"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/recipe"
	"github.com/porelab/porenet/pkg/topo"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultConnectivity is the neighbor class used when none is given.
	DefaultConnectivity = 6

	// DefaultSpacing is the lattice spacing used when none is given.
	DefaultSpacing = 1.0

	// DefaultSeed seeds the reducer when the caller supplies no seed.
	DefaultSeed = uint64(42)
)

// Artifact formats.
const (
	FormatJSON = "json"
	FormatVTK  = "vtk"
	FormatCSV  = "csv"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats maps every supported artifact format to true.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatVTK:  true,
	FormatCSV:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options carries the full pipeline configuration. It serializes to JSON
// so API requests can post it directly.
type Options struct {
	// Build options
	Shape        [3]int  `json:"shape"`
	Connectivity int     `json:"connectivity,omitempty"`
	Spacing      float64 `json:"spacing,omitempty"`

	// Reduce options. A zero Coordination skips the reduce stage.
	Coordination float64 `json:"coordination,omitempty"`
	Seed         uint64  `json:"seed,omitempty"`

	// Compose options. No species skips the compose stage.
	Species   []SpeciesOptions `json:"species,omitempty"`
	Balance   string           `json:"balance,omitempty"`
	Tolerance float64          `json:"tolerance,omitempty"`

	// Render stage options
	Formats   []string `json:"formats,omitempty"`
	Highlight string   `json:"highlight,omitempty"` // pore label drawn in red
	Indices   bool     `json:"indices,omitempty"`   // show pore indices in drawings

	// Refresh bypasses cached stage results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage progress lines; io.Discard when nil. Never
	// serialized.
	Logger *log.Logger `json:"-"`

	// validated marks that ValidateAndSetDefaults already ran.
	validated bool `json:"-"`
}

// SpeciesOptions describes one species of the composed mixture. A nil
// Fraction leaves the species unresolved so the balance fills it.
type SpeciesOptions struct {
	Name     string             `json:"name"`
	Fraction *float64           `json:"fraction,omitempty"`
	Props    map[string]float64 `json:"props,omitempty"`
}

// FromRecipe converts a validated recipe into pipeline options.
func FromRecipe(r *recipe.Recipe) Options {
	opts := Options{
		Shape:        r.Network.Shape,
		Connectivity: r.Network.Connectivity,
		Spacing:      r.Network.Spacing,
	}
	if r.Reduce != nil {
		opts.Coordination = r.Reduce.Coordination
		opts.Seed = r.Reduce.Seed
	}
	if r.Mixture != nil {
		opts.Balance = r.Mixture.Balance
		opts.Tolerance = r.Mixture.Tolerance
	}
	for _, s := range r.Species {
		opts.Species = append(opts.Species, SpeciesOptions{
			Name:     s.Name,
			Fraction: s.Fraction,
			Props:    s.Props,
		})
	}
	return opts
}

// Result holds everything a pipeline run produced.
type Result struct {
	// Network is the built (and possibly reduced) network.
	Network *network.Network

	// NetworkHash is the content hash of the final network.
	NetworkHash string

	// Plan describes the applied reduction. Nil when the stage was
	// skipped.
	Plan *topo.Plan

	// Health is the structural health of the final network.
	Health topo.Health

	// Mixture is the composed mixture. Nil when no species were given.
	Mixture *mixture.Mixture

	// Artifacts holds the rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats holds per-stage timings and the network size.
	Stats Stats

	// CacheInfo reports which stages were served from cache.
	CacheInfo CacheInfo
}

// Stats records how long each stage took and how big the result is.
type Stats struct {
	PoreCount   int
	ThroatCount int
	BuildTime   time.Duration
	ReduceTime  time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports per-stage cache hits.
type CacheInfo struct {
	BuildHit  bool // built network served from cache
	ReduceHit bool // reduced network served from cache
	RenderHit bool // every artifact served from cache
}

// =============================================================================
// Format Validation
// =============================================================================

// ValidateFormat rejects unknown artifact formats.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, vtk, csv, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats rejects the first unknown format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Option Validation
// =============================================================================

// ValidateAndSetDefaults validates every stage's options and fills in
// their defaults. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetReduceDefaults()
	if err := o.ValidateForCompose(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ensureLogger makes the logger safe to call unconditionally.
func (o *Options) ensureLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForBuild checks required fields for lattice generation.
func (o *Options) ValidateForBuild() error {
	if o.Shape[0] < 1 || o.Shape[1] < 1 || o.Shape[2] < 1 {
		return fmt.Errorf("shape %v: all dimensions must be at least 1", o.Shape)
	}
	if o.Connectivity == 0 {
		o.Connectivity = DefaultConnectivity
	}
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Spacing < 0 {
		return fmt.Errorf("spacing %v: must be positive", o.Spacing)
	}
	o.ensureLogger()
	return nil
}

// SetReduceDefaults sets default values for the reduce stage.
func (o *Options) SetReduceDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.ensureLogger()
}

// ValidateForReduce validates and sets defaults for the reduce stage.
func (o *Options) ValidateForReduce() error {
	o.SetReduceDefaults()
	if o.Coordination < 0 {
		return fmt.Errorf("coordination %v: must not be negative", o.Coordination)
	}
	return nil
}

// ValidateForCompose validates the species list for the compose stage.
func (o *Options) ValidateForCompose() error {
	if o.Tolerance < 0 {
		return fmt.Errorf("tolerance %v: must not be negative", o.Tolerance)
	}

	balanceFound := o.Balance == ""
	seen := make(map[string]bool, len(o.Species))
	for _, s := range o.Species {
		if s.Name == "" {
			return fmt.Errorf("species with empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("species %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if s.Name == o.Balance {
			balanceFound = true
			if s.Fraction != nil {
				return fmt.Errorf("species %q: balance species must not set a fraction", s.Name)
			}
		}
	}
	if !balanceFound {
		return fmt.Errorf("balance species %q is not in the species list", o.Balance)
	}
	return nil
}

// SetRenderDefaults fills in the render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.ensureLogger()
}

// ValidateForRender applies render defaults and checks the format list.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ShouldReduce returns true if the reduce stage should run.
func (o *Options) ShouldReduce() bool {
	return o.Coordination > 0
}

// ShouldCompose returns true if the compose stage should run.
func (o *Options) ShouldCompose() bool {
	return len(o.Species) > 0
}

// NetworkKeyOpts returns cache key options for the build stage.
func (o *Options) NetworkKeyOpts() cache.NetworkKeyOpts {
	return cache.NetworkKeyOpts{
		Shape:        o.Shape,
		Connectivity: o.Connectivity,
		Spacing:      o.Spacing,
	}
}

// ReductionKeyOpts returns cache key options for the reduce stage.
func (o *Options) ReductionKeyOpts() cache.ReductionKeyOpts {
	return cache.ReductionKeyOpts{
		Coordination: o.Coordination,
		Seed:         o.Seed,
	}
}

// ArtifactKeyOpts returns the cache key inputs for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Highlight: o.Highlight,
		Indices:   o.Indices,
	}
}
