// Package cli implements the porenet command-line interface.
//
// This package provides commands for generating cubic lattice networks,
// reducing them to a target coordination number, composing species mixtures,
// and exporting or rendering the results. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Build a cubic lattice, optionally reduce and compose in one go
//   - reduce: Lower the average coordination number of an existing network
//   - trim: Remove explicit throat indices
//   - mix: Resolve a species composition
//   - inspect, render, export: Examine and serialize network documents
//   - run: Execute a TOML recipe through the full pipeline
//   - project: Manage stored projects
//   - cache: Manage the pipeline stage cache
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the [CLI] struct and is handed to the pipeline through its
// options.
//
// # Example
//
//	import "github.com/porelab/porenet/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/porelab/porenet/pkg/buildinfo"
	"github.com/porelab/porenet/pkg/cache"
	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/store"
)

// =============================================================================
// App Constants
// =============================================================================

// appName names the binary for cache paths and display.
const appName = "porenet"

// Log levels, re-exported so main.go avoids a direct charmbracelet import.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI State
// =============================================================================

// CLI carries the logger shared by every command.
type CLI struct {
	Logger *log.Logger
}

// New builds a CLI that logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel adjusts logging verbosity, used by the --verbose flag.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand assembles the porenet command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Porenet builds and analyzes pore network models",
		Long:         `Porenet is a CLI tool for generating cubic pore network lattices, trimming them to realistic coordination numbers, composing per-pore species mixtures, and rendering the result for inspection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.reduceCommand())
	root.AddCommand(c.trimCommand())
	root.AddCommand(c.mixCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// newRunner wires a pipeline runner to the local file cache, or to no
// cache at all when noCache is set.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	stageCache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(stageCache, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache directory unavailable, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the project store. An empty dir selects the default
// location under the user config directory.
func newStore(dir string) (store.Store, error) {
	return store.NewFileStore(dir)
}

// =============================================================================
// Directories
// =============================================================================

// cacheDir resolves the cache directory, honoring XDG_CACHE_HOME before
// falling back to ~/.cache/porenet.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Parsing
// =============================================================================

// parseShape parses an "X,Y,Z" dimension string. A single value is used for
// all three dimensions.
func parseShape(s string) ([3]int, error) {
	parts := strings.Split(s, ",")
	var shape [3]int
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return shape, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid shape %q", s)
		}
		shape = [3]int{n, n, n}
	case 3:
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return shape, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid shape %q", s)
			}
			shape[i] = n
		}
	default:
		return shape, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
			"shape must be one or three comma-separated values, got %q", s)
	}
	for _, n := range shape {
		if n < 1 {
			return shape, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
				"shape dimensions must be >= 1, got %q", s)
		}
	}
	return shape, nil
}

// parseFormats splits a comma-separated format flag, substituting fallback
// when the flag is empty.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parseIntList parses a comma-separated list of indices.
func parseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid index %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseSpecies parses repeated --species flags. Each entry is either "name"
// (left unresolved, to be filled in by the balance species) or
// "name:fraction".
func parseSpecies(entries []string) ([]pipeline.SpeciesOptions, error) {
	out := make([]pipeline.SpeciesOptions, 0, len(entries))
	for _, entry := range entries {
		name, frac, found := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "species entry %q has no name", entry)
		}
		s := pipeline.SpeciesOptions{Name: name}
		if found {
			x, err := strconv.ParseFloat(strings.TrimSpace(frac), 64)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
					"species %q has an invalid fraction %q", name, frac)
			}
			s.Fraction = &x
		}
		out = append(out, s)
	}
	return out, nil
}
