package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/porelab/porenet/pkg/network"
)

// WritePoreCSV writes a flat per-pore table to w.
//
// Columns are: pore index, x/y/z (only when the network has coordinates),
// every pore prop in sorted name order, then every pore label in sorted
// name order as true/false.
func WritePoreCSV(net *network.Network, w io.Writer) error {
	coords := net.Coords()
	propNames := net.PorePropNames()
	labelNames := net.PoreLabelNames()

	header := []string{"pore"}
	if coords != nil {
		header = append(header, "x", "y", "z")
	}
	header = append(header, propNames...)
	header = append(header, labelNames...)

	cw := csv.NewWriter(w)
	_ = cw.Write(header)

	props := make([][]float64, len(propNames))
	for i, name := range propNames {
		props[i], _ = net.PoreProp(name)
	}

	row := make([]string, 0, len(header))
	for p := 0; p < net.PoreCount(); p++ {
		row = row[:0]
		row = append(row, strconv.Itoa(p))
		if coords != nil {
			row = append(row,
				formatFloat(coords[p][0]),
				formatFloat(coords[p][1]),
				formatFloat(coords[p][2]))
		}
		for _, vals := range props {
			row = append(row, formatFloat(vals[p]))
		}
		for _, name := range labelNames {
			row = append(row, strconv.FormatBool(net.HasPoreLabel(name, p)))
		}
		_ = cw.Write(row)
	}

	cw.Flush()
	return cw.Error()
}

// WriteThroatCSV writes a flat per-throat table to w.
//
// Columns are: throat index, the two endpoint pores, every throat prop in
// sorted name order, then every throat label in sorted name order as
// true/false.
func WriteThroatCSV(net *network.Network, w io.Writer) error {
	conns := net.Throats()
	propNames := net.ThroatPropNames()
	labelNames := net.ThroatLabelNames()

	header := []string{"throat", "pore_a", "pore_b"}
	header = append(header, propNames...)
	header = append(header, labelNames...)

	cw := csv.NewWriter(w)
	_ = cw.Write(header)

	props := make([][]float64, len(propNames))
	for i, name := range propNames {
		props[i], _ = net.ThroatProp(name)
	}

	row := make([]string, 0, len(header))
	for t := range conns {
		row = row[:0]
		row = append(row, strconv.Itoa(t), strconv.Itoa(conns[t][0]), strconv.Itoa(conns[t][1]))
		for _, vals := range props {
			row = append(row, formatFloat(vals[t]))
		}
		for _, name := range labelNames {
			row = append(row, strconv.FormatBool(net.HasThroatLabel(name, t)))
		}
		_ = cw.Write(row)
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ExportPoreCSV writes the per-pore table to a CSV file at path.
func ExportPoreCSV(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePoreCSV(net, f)
}

// ExportThroatCSV writes the per-throat table to a CSV file at path.
func ExportThroatCSV(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteThroatCSV(net, f)
}
