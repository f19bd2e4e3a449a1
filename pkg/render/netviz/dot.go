package netviz

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/render"
)

// Options configures network diagram rendering.
type Options struct {
	// HighlightLabel draws pores and throats carrying this label in red.
	// Empty means no highlighting.
	HighlightLabel string

	// ShowIndices prints pore indices inside the circles.
	// When false, pores are drawn as plain points.
	ShowIndices bool
}

// layoutExtent is the span of the pinned layout in points. Node positions
// are scaled so the longest axis of the projected network covers this much.
const layoutExtent = 400.0

// ToDOT converts a network to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or
// [RenderPNG].
//
// Networks with coordinates are pinned to an oblique projection of their
// positions; networks without coordinates use the neato spring layout.
func ToDOT(net *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.ShowIndices {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, fixedsize=true, width=0.3];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.08];\n")
	}
	buf.WriteString("\n")

	pts := positions(net.Coords())
	for p := 0; p < net.PoreCount(); p++ {
		attrs := poreAttrs(net, p, pts, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d;\n", p)
			continue
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", p, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for t, conn := range net.Throats() {
		if opts.HighlightLabel != "" && net.HasThroatLabel(opts.HighlightLabel, t) {
			fmt.Fprintf(&buf, "  %d -- %d [color=red, penwidth=2];\n", conn[0], conn[1])
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", conn[0], conn[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func poreAttrs(net *network.Network, p int, pts [][2]float64, opts Options) []string {
	var attrs []string
	if pts != nil {
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", pts[p][0], pts[p][1]))
	}
	if opts.HighlightLabel != "" && net.HasPoreLabel(opts.HighlightLabel, p) {
		if opts.ShowIndices {
			attrs = append(attrs, "fillcolor=lightcoral")
		} else {
			attrs = append(attrs, "color=red", "width=0.12")
		}
	}
	return attrs
}

// positions projects 3D coordinates into the plane and scales them to the
// layout extent. The z axis is pulled toward the upper right so lattice
// depth stays visible.
func positions(coords [][3]float64) [][2]float64 {
	if coords == nil {
		return nil
	}

	pts := make([][2]float64, len(coords))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, c := range coords {
		x := c[0] + 0.35*c[2]
		y := c[1] + 0.35*c[2]
		pts[i] = [2]float64{x, y}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if span > 0 {
		scale = layoutExtent / span
	}
	for i := range pts {
		pts[i][0] = (pts[i][0] - minX) * scale
		pts[i][1] = (pts[i][1] - minY) * scale
	}
	return pts
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
