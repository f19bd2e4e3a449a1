// Package netviz renders pore networks as node-link diagrams.
//
// # Overview
//
// This package produces undirected graph visualizations using Graphviz,
// where pores appear as circles connected by throat lines. It is meant for
// inspecting small networks: a few hundred pores render fine, a million do
// not.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := netviz.ToDOT(net, netviz.Options{HighlightLabel: "surface"})
//	svg, err := netviz.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := netviz.RenderPDF(dot)
//	png, err := netviz.RenderPNG(dot, 2.0)  // 2x scale
//
// # Layout
//
// When the network carries coordinates, pores are pinned to an oblique
// projection of their positions (x and y in the plane, z pulled toward the
// upper right), so cubic lattices render as recognizable grids. Networks
// without coordinates fall back to Graphviz's spring layout.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - HighlightLabel: pores and throats carrying this label are drawn in red
//   - ShowIndices: pore indices are printed inside the circles
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package netviz
