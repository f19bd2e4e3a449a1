package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/topo"
)

// trimCommand creates the trim command for removing explicit throats.
func (c *CLI) trimCommand() *cobra.Command {
	var (
		throatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "trim [network.json]",
		Short: "Remove explicit throats from a network",
		Long: `Remove explicit throats from a network.

Unlike reduce, which picks throats at random to hit a coordination target,
trim deletes exactly the throat indices you name. Indices refer to the
input network; remaining throats are renumbered afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			throats, err := parseIntList(throatsStr)
			if err != nil {
				return err
			}
			if len(throats) == 0 {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
					"at least one --throats index is required")
			}
			return c.runTrim(args[0], throats, output)
		},
	}

	cmd.Flags().StringVarP(&throatsStr, "throats", "t", "", "comma-separated throat indices to remove")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_trimmed.json)")

	return cmd
}

// runTrim loads the network, removes the named throats, and writes the result.
func (c *CLI) runTrim(input string, throats []int, output string) error {
	net, err := export.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load network %s: %w", input, err)
	}

	before := net.ThroatCount()
	if err := topo.Trim(net, throats); err != nil {
		return fmt.Errorf("trim: %w", err)
	}

	printSuccess("Removed %d of %d throats", before-net.ThroatCount(), before)
	printStats(net.PoreCount(), net.ThroatCount(), false)
	if health := topo.CheckHealth(net); !health.OK() {
		printHealth(health)
	}

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_trimmed.json"
	}
	if err := export.ExportJSON(net, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}
