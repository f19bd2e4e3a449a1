package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/topo"
)

// inspectCommand creates the inspect command for summarizing networks.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [network.json]",
		Short: "Summarize a network document",
		Long: `Summarize a network document.

The inspect command prints pore and throat counts, the average
coordination number, a connectivity health check, and the labels and
properties attached to the network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
	return cmd
}

// runInspect loads the network and prints its summary.
func (c *CLI) runInspect(input string) error {
	net, err := export.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load network %s: %w", input, err)
	}

	fmt.Println(StyleTitle.Render(filepath.Base(input)))
	printNewline()

	printKeyValue("pores", strconv.Itoa(net.PoreCount()))
	printKeyValue("throats", strconv.Itoa(net.ThroatCount()))
	printKeyValue("coordination", fmt.Sprintf("%.2f", net.AverageCoordination()))
	printHealth(topo.CheckHealth(net))

	if t := labelTable(net); t != "" {
		printNewline()
		fmt.Println(t)
	}

	if names := net.PorePropNames(); len(names) > 0 {
		printDetail("pore props: %s", strings.Join(names, ", "))
	}
	if names := net.ThroatPropNames(); len(names) > 0 {
		printDetail("throat props: %s", strings.Join(names, ", "))
	}
	return nil
}

// labelTable renders the label counts as a table. Returns "" when the
// network has no labels.
func labelTable(net *network.Network) string {
	rows := [][]string{}
	for _, name := range net.PoreLabelNames() {
		rows = append(rows, []string{name, "pore", strconv.Itoa(len(net.PoresWithLabel(name)))})
	}
	for _, name := range net.ThroatLabelNames() {
		rows = append(rows, []string{name, "throat", strconv.Itoa(len(net.ThroatsWithLabel(name)))})
	}
	if len(rows) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Kind", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
