package pipeline

import (
	"bytes"
	"fmt"

	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/render/netviz"
)

// Render generates output artifacts in the requested formats. The json,
// vtk and csv formats serialize the network (csv emits the pore table;
// the throat table is a separate export); svg, png and pdf draw it.
func Render(net *network.Network, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := renderFormat(net, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(net *network.Network, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshalNetwork(net)

	case FormatVTK:
		var buf bytes.Buffer
		if err := export.WriteVTK(net, "porenet", &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatCSV:
		var buf bytes.Buffer
		if err := export.WritePoreCSV(net, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatSVG:
		return netviz.RenderSVG(vizDOT(net, opts))

	case FormatPNG:
		return netviz.RenderPNG(vizDOT(net, opts), 2.0)

	case FormatPDF:
		return netviz.RenderPDF(vizDOT(net, opts))

	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func vizDOT(net *network.Network, opts Options) string {
	return netviz.ToDOT(net, netviz.Options{
		HighlightLabel: opts.Highlight,
		ShowIndices:    opts.Indices,
	})
}
