package netviz

import (
	"strings"
	"testing"

	"github.com/porelab/porenet/pkg/network"
)

func pathNetwork(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.New(3, [][2]int{{0, 1}, {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestToDOT_Undirected(t *testing.T) {
	dot := ToDOT(pathNetwork(t), Options{})

	if !strings.HasPrefix(dot, "graph G {\n") {
		t.Errorf("DOT does not start with undirected graph header:\n%s", dot)
	}
	if !strings.Contains(dot, "  0 -- 1;\n") || !strings.Contains(dot, "  1 -- 2;\n") {
		t.Errorf("DOT missing throat edges:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("undirected DOT must not contain directed edges")
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("DOT missing neato layout attribute")
	}
}

func TestToDOT_PinsCoordinates(t *testing.T) {
	net := pathNetwork(t)
	if err := net.SetCoords([][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(net, Options{})
	if !strings.Contains(dot, `pos="0.00,0.00!"`) {
		t.Errorf("pore 0 not pinned at origin:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="400.00,0.00!"`) {
		t.Errorf("pore 2 not scaled to the layout extent:\n%s", dot)
	}
}

func TestToDOT_NoCoordsHasNoPins(t *testing.T) {
	dot := ToDOT(pathNetwork(t), Options{})
	if strings.Contains(dot, "pos=") {
		t.Errorf("DOT has pinned positions without coordinates:\n%s", dot)
	}
}

func TestToDOT_Highlight(t *testing.T) {
	net := pathNetwork(t)
	if err := net.LabelPores("inlet", []int{0}); err != nil {
		t.Fatal(err)
	}
	if err := net.LabelThroats("trimmed", []int{1}); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(net, Options{HighlightLabel: "inlet"})
	if !strings.Contains(dot, "  0 [color=red, width=0.12];\n") {
		t.Errorf("highlighted pore not styled:\n%s", dot)
	}

	dot = ToDOT(net, Options{HighlightLabel: "trimmed"})
	if !strings.Contains(dot, "  1 -- 2 [color=red, penwidth=2];\n") {
		t.Errorf("highlighted throat not styled:\n%s", dot)
	}
	if !strings.Contains(dot, "  0 -- 1;\n") {
		t.Errorf("unlabelled throat restyled:\n%s", dot)
	}
}

func TestToDOT_ShowIndices(t *testing.T) {
	dot := ToDOT(pathNetwork(t), Options{ShowIndices: true})
	if !strings.Contains(dot, "shape=circle") {
		t.Error("ShowIndices should draw circles")
	}

	dot = ToDOT(pathNetwork(t), Options{})
	if !strings.Contains(dot, "shape=point") {
		t.Error("default should draw points")
	}
}

func TestPositions_ObliqueProjection(t *testing.T) {
	pts := positions([][3]float64{{0, 0, 0}, {0, 0, 1}})
	if pts[0] != [2]float64{0, 0} {
		t.Errorf("pts[0] = %v, want origin", pts[0])
	}
	// Depth maps to the diagonal, scaled so the longest axis spans the extent.
	if pts[1][0] != layoutExtent || pts[1][1] != layoutExtent {
		t.Errorf("pts[1] = %v, want [%g %g]", pts[1], layoutExtent, layoutExtent)
	}
}

func TestPositions_DegenerateSpan(t *testing.T) {
	pts := positions([][3]float64{{2, 3, 0}, {2, 3, 0}})
	for i, p := range pts {
		if p != [2]float64{0, 0} {
			t.Errorf("pts[%d] = %v, want origin", i, p)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}
