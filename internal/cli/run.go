package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/project"
	"github.com/porelab/porenet/pkg/recipe"
)

// runCommand creates the run command for executing recipe files.
func (c *CLI) runCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		saveName   string
		storeDir   string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "run [recipe.toml]",
		Short: "Execute a recipe file",
		Long: `Execute a recipe file.

A recipe describes a complete workflow declaratively: the lattice to
generate, an optional coordination reduction, and an optional mixture.
The run command executes it through the same pipeline as generate and
writes the artifacts next to the recipe unless --output is given.

Use --save to persist the result as a named project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, pipeline.FormatJSON)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRecipe(cmd.Context(), args[0], runRecipeParams{
				formats:  formats,
				output:   output,
				saveName: saveName,
				storeDir: storeDir,
				noCache:  noCache,
				refresh:  refresh,
			})
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), vtk, csv, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&saveName, "save", "", "save the result as a project with this name")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "project store directory (default ~/.config/porenet/projects)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute cached stages and overwrite them")

	return cmd
}

// runRecipeParams bundles the run command flags.
type runRecipeParams struct {
	formats  []string
	output   string
	saveName string
	storeDir string
	noCache  bool
	refresh  bool
}

// runRecipe loads the recipe, executes the pipeline, and writes artifacts.
func (c *CLI) runRecipe(ctx context.Context, path string, p runRecipeParams) error {
	r, err := recipe.Load(path)
	if err != nil {
		return err
	}

	opts := pipeline.FromRecipe(r)
	opts.Formats = p.formats
	opts.Refresh = p.refresh
	opts.Logger = c.Logger

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running recipe %s...", r.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Recipe failed")
		return fmt.Errorf("run %s: %w", path, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Ran recipe %s in %s", r.Name, spinner.Elapsed()))

	printStats(result.Stats.PoreCount, result.Stats.ThroatCount, result.CacheInfo.BuildHit)
	if result.Plan != nil {
		printDetail("coordination %.2f (target %.2f), removed %d throats",
			result.Plan.Achieved, result.Plan.Target, len(result.Plan.Remove))
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
		input:     path,
		output:    p.output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}

	if p.saveName != "" {
		return c.saveRunResult(ctx, p.saveName, p.storeDir, r, result)
	}
	return nil
}

// saveRunResult persists the pipeline result as a new project.
func (c *CLI) saveRunResult(ctx context.Context, name, storeDir string, r *recipe.Recipe, result *pipeline.Result) error {
	st, err := newStore(storeDir)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer st.Close(ctx)

	proj, err := project.New(name)
	if err != nil {
		return err
	}
	proj.SetNetwork(result.Network)

	if result.Mixture != nil {
		mixName := "default"
		if r.Mixture != nil && r.Mixture.Name != "" {
			mixName = r.Mixture.Name
		}
		if err := proj.AddMixture(mixName, result.Mixture); err != nil {
			return err
		}
	}

	if err := st.Save(ctx, proj); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	printSuccess("Saved project %s", name)
	printDetail("id: %s", proj.ID())
	printNextStep("Show it", fmt.Sprintf("%s project show %s", appName, proj.ID()))
	return nil
}
