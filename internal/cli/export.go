package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/pipeline"
)

// exportCommand creates the export command for serializing networks.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export [network.json]",
		Short: "Write a network as JSON, CSV, or VTK",
		Long: `Write a network as JSON, CSV, or VTK.

The json format round-trips the complete network including labels and
properties. The vtk format writes legacy VTK PolyData for ParaView. The
csv format writes two property tables, one for pores and one for
throats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, pipeline.FormatJSON)
			for _, f := range formats {
				switch f {
				case pipeline.FormatJSON, pipeline.FormatVTK, pipeline.FormatCSV:
				default:
					return pkgerrors.New(pkgerrors.ErrCodeInvalidFormat,
						"invalid export format %q (must be json, vtk, or csv)", f)
				}
			}
			return c.runExport(args[0], formats, output)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), vtk, csv (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

// runExport loads the network and writes it in each requested format.
func (c *CLI) runExport(input string, formats []string, output string) error {
	net, err := export.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load network %s: %w", input, err)
	}

	base := outputBase(output, input)
	for _, format := range formats {
		paths, err := exportFormat(net, format, base)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		for _, path := range paths {
			printFile(path)
		}
	}

	printSuccess("Exported %d pores, %d throats", net.PoreCount(), net.ThroatCount())
	return nil
}

// exportFormat writes one format and returns the written paths. The csv
// format produces two files, a pore table and a throat table.
func exportFormat(net *network.Network, format, base string) ([]string, error) {
	switch format {
	case pipeline.FormatJSON:
		path := base + ".json"
		if err := export.ExportJSON(net, path); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case pipeline.FormatVTK:
		path := base + ".vtk"
		if err := export.ExportVTK(net, path); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case pipeline.FormatCSV:
		porePath := base + "_pores.csv"
		throatPath := base + "_throats.csv"
		if err := export.ExportPoreCSV(net, porePath); err != nil {
			return nil, err
		}
		if err := export.ExportThroatCSV(net, throatPath); err != nil {
			return nil, err
		}
		return []string{porePath, throatPath}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
