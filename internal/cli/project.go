package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/project"
	"github.com/porelab/porenet/pkg/store"
)

// errSelectionCancelled reports that the user left the picker without
// choosing a project.
var errSelectionCancelled = errors.New("selection cancelled")

// projectCommand creates the project management command.
func (c *CLI) projectCommand() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored projects",
		Long: `Manage stored projects.

A project bundles a network and its mixtures under a name and a stable
id. Projects are stored as JSON documents under the store directory,
one file per project.`,
	}
	cmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "project store directory (default ~/.config/porenet/projects)")

	cmd.AddCommand(c.projectListCommand(&storeDir))
	cmd.AddCommand(c.projectShowCommand(&storeDir))
	cmd.AddCommand(c.projectCreateCommand(&storeDir))
	cmd.AddCommand(c.projectRenameCommand(&storeDir))
	cmd.AddCommand(c.projectDeleteCommand(&storeDir))

	return cmd
}

// projectListCommand creates the "project list" subcommand.
func (c *CLI) projectListCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(*storeDir)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer st.Close(ctx)

			infos, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No projects yet")
				printNextStep("Create one", fmt.Sprintf("%s project create NAME", appName))
				return nil
			}

			fmt.Println(projectTable(infos))
			printDetail("%d projects", len(infos))
			return nil
		},
	}
}

// projectShowCommand creates the "project show" subcommand.
func (c *CLI) projectShowCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a stored project",
		Long:  "Show a stored project. Without an id, pick one interactively.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(*storeDir)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer st.Close(ctx)

			id, err := resolveProjectID(ctx, st, args)
			if errors.Is(err, errSelectionCancelled) {
				printInfo("Cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			p, err := st.Load(ctx, id)
			if err != nil {
				return err
			}
			return showProject(p)
		},
	}
}

// projectCreateCommand creates the "project create" subcommand.
func (c *CLI) projectCreateCommand(storeDir *string) *cobra.Command {
	var (
		shapeStr   string
		speciesStr []string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new project",
		Long: `Create a new project.

With --shape, the project is created with a freshly generated network;
the remaining pipeline flags apply to the build. Without --shape, the
project starts empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shapeStr != "" {
				shape, err := parseShape(shapeStr)
				if err != nil {
					return err
				}
				opts.Shape = shape
			}
			species, err := parseSpecies(speciesStr)
			if err != nil {
				return err
			}
			opts.Species = species
			return c.runProjectCreate(cmd.Context(), args[0], *storeDir, opts, shapeStr != "", noCache)
		},
	}

	cmd.Flags().StringVarP(&shapeStr, "shape", "s", "", "generate a network with this shape as X,Y,Z")
	cmd.Flags().IntVar(&opts.Connectivity, "connectivity", 0, "neighbor class: 6 (faces, default) or 26 (faces, edges, corners)")
	cmd.Flags().Float64Var(&opts.Spacing, "spacing", 0, "lattice spacing (default 1.0)")
	cmd.Flags().Float64VarP(&opts.Coordination, "coordination", "z", 0, "target average coordination number")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible trimming (default 42)")
	cmd.Flags().StringArrayVar(&speciesStr, "species", nil, "species as name or name:fraction (repeatable)")
	cmd.Flags().StringVar(&opts.Balance, "balance", "", "balance species that absorbs the remaining fraction")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "mole fraction closure tolerance")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runProjectCreate creates and saves a project, optionally building its
// network first.
func (c *CLI) runProjectCreate(ctx context.Context, name, storeDir string, opts pipeline.Options, build, noCache bool) error {
	p, err := project.New(name)
	if err != nil {
		return err
	}

	if build {
		runner, err := c.newRunner(noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		opts.Formats = []string{pipeline.FormatJSON}
		opts.Logger = c.Logger

		spinner := newSpinnerWithContext(ctx, "Generating network...")
		spinner.Start()
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return fmt.Errorf("generate: %w", err)
		}
		spinner.Stop()

		p.SetNetwork(result.Network)
		if result.Mixture != nil {
			if err := p.AddMixture("default", result.Mixture); err != nil {
				return err
			}
		}
	}

	st, err := newStore(storeDir)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer st.Close(ctx)

	if err := st.Save(ctx, p); err != nil {
		return err
	}

	printSuccess("Created project %s", name)
	printDetail("id: %s", p.ID())
	if net := p.Network(); net != nil {
		printStats(net.PoreCount(), net.ThroatCount(), false)
	}
	printNextStep("Show it", fmt.Sprintf("%s project show %s", appName, p.ID()))
	return nil
}

// projectRenameCommand creates the "project rename" subcommand.
func (c *CLI) projectRenameCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename [id] [name]",
		Short: "Rename a stored project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(*storeDir)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer st.Close(ctx)

			id, err := expandProjectID(ctx, st, args[0])
			if err != nil {
				return err
			}
			p, err := st.Load(ctx, id)
			if err != nil {
				return err
			}
			previous := p.Name()
			if err := p.Rename(args[1]); err != nil {
				return err
			}
			if err := st.Save(ctx, p); err != nil {
				return err
			}
			printSuccess("Renamed %s to %s", previous, args[1])
			return nil
		},
	}
}

// projectDeleteCommand creates the "project delete" subcommand.
func (c *CLI) projectDeleteCommand(storeDir *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored project",
		Long:  "Delete a stored project. Without an id, pick one interactively.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(*storeDir)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer st.Close(ctx)

			id, err := resolveProjectID(ctx, st, args)
			if errors.Is(err, errSelectionCancelled) {
				printInfo("Cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			p, err := st.Load(ctx, id)
			if err != nil {
				return err
			}

			if !force && !confirm(fmt.Sprintf("Delete project %q?", p.Name())) {
				printInfo("Cancelled")
				return nil
			}

			if err := st.Delete(ctx, id); err != nil {
				return err
			}
			printSuccess("Deleted project %s", p.Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without confirmation")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// resolveProjectID returns the project id from args, expanding a unique
// id prefix, or runs the interactive picker when no id was given.
func resolveProjectID(ctx context.Context, st store.Store, args []string) (string, error) {
	if len(args) > 0 {
		return expandProjectID(ctx, st, args[0])
	}

	infos, err := st.List(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no projects stored yet")
	}

	prog := tea.NewProgram(NewProjectListModel(infos))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("project picker: %w", err)
	}
	m, ok := final.(ProjectListModel)
	if !ok || m.Selected == nil {
		return "", errSelectionCancelled
	}
	return m.Selected.ID, nil
}

// expandProjectID turns an id prefix (as shown by "project list") into a
// full id. Unknown ids pass through so the load reports the miss.
func expandProjectID(ctx context.Context, st store.Store, id string) (string, error) {
	infos, err := st.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, info := range infos {
		if info.ID == id {
			return id, nil
		}
		if strings.HasPrefix(info.ID, id) {
			matches = append(matches, info.ID)
		}
	}
	switch len(matches) {
	case 0:
		return id, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project id %q is ambiguous (%d matches)", id, len(matches))
	}
}

// showProject prints the details of a loaded project.
func showProject(p *project.Project) error {
	fmt.Println(StyleTitle.Render(p.Name()))
	printNewline()
	printKeyValue("id", p.ID())
	printKeyValue("created", p.CreatedAt().Format("Jan 2, 2006 15:04"))
	printKeyValue("modified", formatRelativeTime(p.ModifiedAt()))

	net := p.Network()
	if net == nil {
		printDetail("no network attached")
		return nil
	}
	printKeyValue("pores", fmt.Sprintf("%d", net.PoreCount()))
	printKeyValue("throats", fmt.Sprintf("%d", net.ThroatCount()))
	printKeyValue("coordination", fmt.Sprintf("%.2f", net.AverageCoordination()))

	for _, name := range p.MixtureNames() {
		m, err := p.Mixture(name)
		if err != nil {
			return err
		}
		parts := make([]string, 0, m.SpeciesCount())
		for _, sp := range m.SpeciesNames() {
			if xs, ok := m.Fraction(sp); ok && len(xs) > 0 {
				parts = append(parts, fmt.Sprintf("%s %.3f", sp, xs[0]))
			}
		}
		printKeyValue("mixture "+name, strings.Join(parts, ", "))
	}
	return nil
}

// confirm asks a yes/no question on stdin and returns the answer.
func confirm(question string) bool {
	printInline("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// projectTable renders project summaries as a table.
func projectTable(infos []store.Info) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			shortID(info.ID),
			info.CreatedAt.Format("Jan 2, 2006"),
			formatRelativeTime(info.ModifiedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "ID", "Created", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
