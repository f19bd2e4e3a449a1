// Package pkg provides the core libraries for porenet pore network modeling.
//
// # Overview
//
// Porenet generates pore networks on regular cubic lattices, prunes them to a
// target average coordination number while keeping them connected, attaches
// multi-species mixtures to the pores, and solves steady-state transport on
// the result. The pkg directory is organized into three main areas:
//
//  1. Domain logic ([network], [topo], [mixture], [transport])
//  2. Serialization and visualization ([export], [recipe], [render])
//  3. Infrastructure ([pipeline], [cache], [store], [project], [observability])
//
// # Data Flow
//
// The typical path through porenet:
//
//	Shape / Recipe
//	      ↓
//	 [network] package (cubic lattice generation)
//	      ↓
//	 [topo] package (coordination reduction, trimming, health checks)
//	      ↓
//	 [mixture] package (species composition)
//	      ↓
//	 [export] / [render] packages
//	      ↓
//	 JSON/VTK/CSV/DOT/SVG/PDF/PNG output
//
// # Getting Started
//
// Generate a lattice, reduce its coordination, and export the result:
//
//	import (
//	    "os"
//
//	    "github.com/porelab/porenet/pkg/export"
//	    "github.com/porelab/porenet/pkg/network"
//	    "github.com/porelab/porenet/pkg/topo"
//	)
//
//	// 1. Generate a 10x10x10 cubic lattice
//	net, _ := network.Cubic([3]int{10, 10, 10},
//	    network.WithConnectivity(6),
//	    network.WithSpacing(1e-4))
//
//	// 2. Plan and apply a coordination reduction
//	plan, _ := topo.ReduceCoordination(net, 4.5, 42)
//	_ = plan.Apply(net)
//
//	// 3. Export to JSON
//	_ = export.WriteJSON(net, os.Stdout)
//
// # Package Guide
//
// ## Domain
//
// [network] - Pore network data structure with coordinates, boolean labels,
// and per-pore/per-throat property arrays. Cubic generates simple cubic
// lattices with 6, 14, or 26 neighbors and labels the boundary faces (left,
// right, front, back, bottom, top).
//
// [topo] - Topology algorithms on any graph exposing pores and throats.
// ReduceCoordination plans throat removals that hit a target average
// coordination while protecting a random spanning tree, Trim removes explicit
// throat lists, and CheckHealth reports disconnected components, isolated
// pores, duplicate throats, and self-loops.
//
// [mixture] - Multi-species mole fraction ledger. Fractions start unresolved
// (NaN) and Resolve fills the single missing species per pore so every pore
// sums to one within tolerance. Mixture-level properties such as molar mass
// are mole-fraction weighted sums over the species.
//
// [transport] - Steady-state transport solver. Assembles a
// conductance-weighted Laplacian with Dirichlet boundary conditions and
// solves it by conjugate gradients. Supports boundary rates and effective
// conductance between two labeled faces.
//
// ## Formats
//
// [export] - Network serialization with three formats: a JSON document that
// round-trips the full network (coordinates, labels, properties), legacy VTK
// for ParaView, and flat pore/throat CSV tables.
//
// [recipe] - TOML recipes describing a complete workflow (network shape,
// reduction target, mixture composition) consumed by the run command.
//
// ## Rendering
//
// [render/netviz] - Graphviz-based network diagrams. ToDOT projects pore
// coordinates obliquely into 2D and emits a DOT graph; RenderSVG, RenderPDF,
// and RenderPNG rasterize it.
//
// [render] - Format conversion utilities (SVG to PDF/PNG).
//
// ## Shared Infrastructure
//
// [pipeline] - Complete workflow (build → reduce → compose → render) shared
// by the CLI and the API. Each stage is cached under a SHA-256 key derived
// from its options, so repeated runs with the same inputs hit the cache.
//
// [cache] - TTL cache interface with file, Redis, null, and scoped
// implementations, plus the key derivation used by the pipeline.
//
// [store] - Project persistence with file and MongoDB backends. Stores named
// networks together with their reduction plans for the project commands.
//
// [project] - Project metadata (IDs, names, timestamps) shared by the store
// backends, the CLI, and the API.
//
// [observability] - Hook registry for pipeline stage and cache events.
// Consumers register callbacks; the pipeline emits events as stages run.
//
// [errors] - Coded errors that map to CLI messages and HTTP statuses.
//
// [buildinfo] - Version, commit, and build date stamped via ldflags.
//
// # Typical Tasks
//
// Run a recipe through the pipeline:
//
//	r, _ := recipe.Load("examples/recipes/air-diffusion.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.FromRecipe(r))
//
// Compose a mixture on a network:
//
//	mix, _ := mixture.New(net.PoreCount())
//	_ = mix.AddSpecies(mixture.Species{Name: "O2", Props: map[string]float64{"molecular_weight": 0.032}})
//	_ = mix.AddSpecies(mixture.Species{Name: "N2", Props: map[string]float64{"molecular_weight": 0.028}})
//	_ = mix.SetFraction("O2", 0.21)
//	_ = mix.Resolve()
//
// Solve a diffusion problem across the lattice:
//
//	alg, _ := transport.New(net, "pore.concentration", conductance)
//	_ = alg.SetValueLabel(1.0, "left")
//	_ = alg.SetValueLabel(0.0, "right")
//	_ = alg.Run(ctx)
//	rate, _ := alg.Rate(net.PoresWithLabel("left"))
//
// Check network health after manual trimming:
//
//	h := topo.CheckHealth(net)
//	if !h.OK() {
//	    fmt.Printf("clusters=%d isolated=%d\n", len(h.Clusters), len(h.IsolatedPores))
//	}
//
// # Running Tests
//
//	go test ./pkg/...              # everything
//	go test ./pkg/topo/...         # one package
//	go test -run Example ./pkg/... # doc examples only
//
// [network]: https://pkg.go.dev/github.com/porelab/porenet/pkg/network
// [topo]: https://pkg.go.dev/github.com/porelab/porenet/pkg/topo
// [mixture]: https://pkg.go.dev/github.com/porelab/porenet/pkg/mixture
// [transport]: https://pkg.go.dev/github.com/porelab/porenet/pkg/transport
// [export]: https://pkg.go.dev/github.com/porelab/porenet/pkg/export
// [recipe]: https://pkg.go.dev/github.com/porelab/porenet/pkg/recipe
// [render]: https://pkg.go.dev/github.com/porelab/porenet/pkg/render
// [render/netviz]: https://pkg.go.dev/github.com/porelab/porenet/pkg/render/netviz
// [pipeline]: https://pkg.go.dev/github.com/porelab/porenet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/porelab/porenet/pkg/cache
// [store]: https://pkg.go.dev/github.com/porelab/porenet/pkg/store
// [project]: https://pkg.go.dev/github.com/porelab/porenet/pkg/project
// [observability]: https://pkg.go.dev/github.com/porelab/porenet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/porelab/porenet/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/porelab/porenet/pkg/buildinfo
package pkg
