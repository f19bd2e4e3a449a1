package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/pipeline"
)

// renderCommand creates the render command for drawing networks.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [network.json]",
		Short: "Draw a network as SVG, PNG, or PDF",
		Long: `Draw a network as SVG, PNG, or PDF.

The render command lays the network out with Graphviz neato, pinning
pores to their lattice coordinates when the network carries them. Use
--highlight to color the pores of a label and --indices to annotate
pores with their index.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached stages and overwrite them")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "pore label drawn in red")
	cmd.Flags().BoolVar(&opts.Indices, "indices", false, "show pore indices")

	return cmd
}

// runRender loads the network and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	net, err := export.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load network %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering network...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, net, "", opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %d pores, %d throats", net.PoreCount(), net.ThroatCount())
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}
