package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/pipeline"
)

// generateCommand creates the generate command for building lattices.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		shapeStr   string
		formatsStr string
		speciesStr []string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a cubic pore network lattice",
		Long: `Generate a cubic pore network lattice.

The generate command builds a regular cubic lattice with the given shape,
optionally trims it to a target average coordination number, composes a
species mixture over the pores, and writes the result in the requested
formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := parseShape(shapeStr)
			if err != nil {
				return err
			}
			opts.Shape = shape

			opts.Species, err = parseSpecies(speciesStr)
			if err != nil {
				return err
			}

			opts.Formats = parseFormats(formatsStr, pipeline.FormatJSON)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached stages and overwrite them")

	// Build flags
	cmd.Flags().StringVarP(&shapeStr, "shape", "s", "5,5,5", "lattice shape as X,Y,Z (or a single value for a cube)")
	cmd.Flags().IntVar(&opts.Connectivity, "connectivity", 0, "neighbor class: 6 (faces, default) or 26 (faces, edges, corners)")
	cmd.Flags().Float64Var(&opts.Spacing, "spacing", 0, "lattice spacing (default 1.0)")

	// Reduce flags
	cmd.Flags().Float64VarP(&opts.Coordination, "coordination", "z", 0, "target average coordination number (0 keeps the full lattice)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible trimming (default 42)")

	// Compose flags
	cmd.Flags().StringArrayVar(&speciesStr, "species", nil, "species as name or name:fraction (repeatable)")
	cmd.Flags().StringVar(&opts.Balance, "balance", "", "balance species that absorbs the remaining fraction")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "mole fraction closure tolerance")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), vtk, csv, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "pore label drawn in red in svg/png/pdf output")
	cmd.Flags().BoolVar(&opts.Indices, "indices", false, "show pore indices in svg/png/pdf output")

	return cmd
}

// runGenerate executes the full pipeline and writes the artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	label := fmt.Sprintf("%dx%dx%d lattice", opts.Shape[0], opts.Shape[1], opts.Shape[2])
	spinner := newSpinnerWithContext(ctx, "Generating "+label+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %s in %s", label, spinner.Elapsed()))

	printStats(result.Stats.PoreCount, result.Stats.ThroatCount, result.CacheInfo.BuildHit)
	if result.Plan != nil {
		printDetail("coordination %.2f (target %.2f), removed %d throats",
			result.Plan.Achieved, result.Plan.Target, len(result.Plan.Remove))
		if result.Plan.Shortfall > 0 {
			printWarning("trim fell %d removals short of the target", result.Plan.Shortfall)
		}
	}
	if result.Mixture != nil {
		printDetail("mixture with %d species over %d pores",
			result.Mixture.SpeciesCount(), result.Mixture.PoreCount())
	}
	if !result.Health.OK() {
		printHealth(result.Health)
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}

	printNewline()
	printNextStep("Draw it", fmt.Sprintf("%s render %s.json", appName, outputBase(output, "")))
	return nil
}
