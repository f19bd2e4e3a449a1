// Package render provides visualization rendering for pore networks.
//
// # Overview
//
// This package holds the rendering side of the pipeline, turning networks
// into images:
//
//   - SVG to PDF/PNG conversion via rsvg-convert
//   - Node-link network diagrams (in [netviz] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] hand any SVG to the external rsvg-convert tool
// (librsvg) and return the converted bytes. The netviz renderer and the
// export CLI both go through them.
//
//	svg, err := netviz.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // rasterized at 2x
//
// # Network Diagrams
//
// The [netviz] subpackage renders networks as undirected node-link diagrams
// using Graphviz. Pores appear as circles connected by throat lines, pinned
// to their spatial positions when the network has coordinates.
//
//	dot := netviz.ToDOT(net, netviz.Options{})
//	svg, err := netviz.RenderSVG(dot)
//
// [netviz]: github.com/porelab/porenet/pkg/render/netviz
package render
