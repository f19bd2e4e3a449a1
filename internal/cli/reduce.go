package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/topo"
)

// reduceCommand creates the reduce command for trimming coordination.
func (c *CLI) reduceCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "reduce [network.json]",
		Short: "Trim a network to a target average coordination number",
		Long: `Trim a network to a target average coordination number.

The reduce command removes randomly selected throats until the average
coordination number reaches the target, while a spanning forest of
protected throats keeps the network connected. The same seed always
removes the same throats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Coordination <= 0 {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
					"a positive --coordination target is required")
			}
			return c.runReduce(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_reduced.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute cached stages and overwrite them")
	cmd.Flags().Float64VarP(&opts.Coordination, "coordination", "z", 0, "target average coordination number")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible trimming (default 42)")

	return cmd
}

// runReduce loads the network, trims it, and writes the result.
func (c *CLI) runReduce(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reducing to coordination %.2f...", opts.Coordination))
	spinner.Start()

	reduced, plan, cacheHit, err := runner.ReduceWithCacheInfo(ctx, net, "", opts)
	if err != nil {
		spinner.StopWithError("Reduction failed")
		return fmt.Errorf("reduce: %w", err)
	}
	spinner.Stop()

	printSuccess("Reduced to coordination %.2f (target %.2f)", plan.Achieved, plan.Target)
	printStats(reduced.PoreCount(), reduced.ThroatCount(), cacheHit)
	printDetail("removed %d throats, %d protected by the spanning forest",
		len(plan.Remove), len(plan.Protected))
	if plan.Shortfall > 0 {
		printWarning("trim fell %d removals short of the target", plan.Shortfall)
	}
	if health := topo.CheckHealth(reduced); !health.OK() {
		printHealth(health)
	}

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_reduced.json"
	}
	if err := export.ExportJSON(reduced, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}
