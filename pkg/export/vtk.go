package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/porelab/porenet/pkg/network"
)

// ErrNoCoords is returned by the VTK writer when the network has no
// coordinates. VTK output is geometric; generate the network with
// [network.Cubic] or call [network.Network.SetCoords] first.
var ErrNoCoords = errors.New("export: network has no coordinates")

// WriteVTK writes a network as legacy VTK PolyData to w.
//
// Pores become POINTS, throats become LINES. Pore props and labels are
// emitted as POINT_DATA scalars (labels as 0/1 ints), throat props and
// labels as CELL_DATA scalars. Whitespace in data names is replaced with
// underscores to satisfy the VTK scalar name grammar.
func WriteVTK(net *network.Network, title string, w io.Writer) error {
	coords := net.Coords()
	if coords == nil {
		return ErrNoCoords
	}
	if title == "" {
		title = "porenet network"
	}

	var buf bytes.Buffer
	buf.WriteString("# vtk DataFile Version 2.0\n")
	buf.WriteString(title + "\n")
	buf.WriteString("ASCII\n")
	buf.WriteString("DATASET POLYDATA\n")

	fmt.Fprintf(&buf, "POINTS %d double\n", len(coords))
	for _, c := range coords {
		fmt.Fprintf(&buf, "%g %g %g\n", c[0], c[1], c[2])
	}

	conns := net.Throats()
	fmt.Fprintf(&buf, "LINES %d %d\n", len(conns), 3*len(conns))
	for _, c := range conns {
		fmt.Fprintf(&buf, "2 %d %d\n", c[0], c[1])
	}

	writeVTKData(&buf, "POINT_DATA", net.PoreCount(),
		net.PorePropNames(), func(name string) []float64 { v, _ := net.PoreProp(name); return v },
		net.PoreLabelNames(), net.HasPoreLabel)
	writeVTKData(&buf, "CELL_DATA", net.ThroatCount(),
		net.ThroatPropNames(), func(name string) []float64 { v, _ := net.ThroatProp(name); return v },
		net.ThroatLabelNames(), net.HasThroatLabel)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeVTKData(buf *bytes.Buffer, section string, count int,
	propNames []string, prop func(string) []float64,
	labelNames []string, hasLabel func(string, int) bool,
) {
	if len(propNames) == 0 && len(labelNames) == 0 {
		return
	}

	fmt.Fprintf(buf, "%s %d\n", section, count)
	for _, name := range propNames {
		fmt.Fprintf(buf, "SCALARS %s double 1\n", vtkName(name))
		buf.WriteString("LOOKUP_TABLE default\n")
		for _, v := range prop(name) {
			fmt.Fprintf(buf, "%g\n", v)
		}
	}
	for _, name := range labelNames {
		fmt.Fprintf(buf, "SCALARS %s int 1\n", vtkName(name))
		buf.WriteString("LOOKUP_TABLE default\n")
		for i := 0; i < count; i++ {
			if hasLabel(name, i) {
				buf.WriteString("1\n")
			} else {
				buf.WriteString("0\n")
			}
		}
	}
}

func vtkName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

// ExportVTK writes a network to a legacy VTK file at path.
// This is a convenience wrapper around [WriteVTK] for file-based output;
// the title is derived from the file name.
func ExportVTK(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return WriteVTK(net, title, f)
}
