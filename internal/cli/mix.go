package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/pipeline"
)

// mixCommand creates the mix command for resolving species compositions.
func (c *CLI) mixCommand() *cobra.Command {
	var (
		pores      int
		input      string
		speciesStr []string
		output     string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "mix",
		Short: "Resolve a species composition",
		Long: `Resolve a species composition.

Every pore carries one mole fraction per species, and the fractions in a
pore must sum to one. Give each species a fraction with name:fraction, or
leave exactly one species bare and name it with --balance to have it
absorb the remainder.

Example:

  porenet mix --pores 100 --species O2:0.21 --species N2 --balance N2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.Species, err = parseSpecies(speciesStr)
			if err != nil {
				return err
			}
			if len(opts.Species) == 0 {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
					"at least one --species is required")
			}
			return c.runMix(pores, input, opts, output)
		},
	}

	cmd.Flags().IntVarP(&pores, "pores", "p", 0, "number of pores to compose over")
	cmd.Flags().StringVar(&input, "network", "", "take the pore count from a network file instead")
	cmd.Flags().StringArrayVar(&speciesStr, "species", nil, "species as name or name:fraction (repeatable)")
	cmd.Flags().StringVar(&opts.Balance, "balance", "", "balance species that absorbs the remaining fraction")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "mole fraction closure tolerance")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the resolved fractions as JSON")

	return cmd
}

// runMix resolves the composition and prints the per-species fractions.
func (c *CLI) runMix(pores int, input string, opts pipeline.Options, output string) error {
	if input != "" {
		net, err := export.ImportJSON(input)
		if err != nil {
			return fmt.Errorf("load network %s: %w", input, err)
		}
		pores = net.PoreCount()
	}
	if pores < 1 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
			"either --pores or --network is required")
	}

	m, err := pipeline.Compose(pores, opts)
	if err != nil {
		return fmt.Errorf("mix: %w", err)
	}

	printSuccess("Resolved %d species over %d pores", m.SpeciesCount(), pores)
	fractions := make(map[string][]float64, m.SpeciesCount())
	for _, name := range m.SpeciesNames() {
		xs, _ := m.Fraction(name)
		fractions[name] = xs
		printKeyValue(name, fmt.Sprintf("%.4f", xs[0]))
	}

	if output != "" {
		doc := struct {
			Pores     int                  `json:"pores"`
			Fractions map[string][]float64 `json:"fractions"`
		}{Pores: pores, Fractions: fractions}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("serialize fractions: %w", err)
		}
		if err := writeFile(output, append(data, '\n')); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}
