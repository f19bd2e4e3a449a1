// Package recipe loads and validates TOML recipe files.
//
// A recipe describes a complete workflow declaratively: the cubic lattice to
// generate, an optional coordination reduction, and an optional gas mixture
// with per-species compositions. Recipes are the input to the pipeline and the
// `porenet run` command.
//
// A minimal recipe:
//
//	name = "air-diffusion"
//
//	[network]
//	shape = [10, 10, 10]
//
//	[mixture]
//	name    = "air"
//	balance = "N2"
//
//	[[species]]
//	name     = "O2"
//	fraction = 0.21
//
//	[[species]]
//	name = "N2"
//
// Use [Load] to read a recipe from disk or [Parse] for raw bytes, then
// [Recipe.Validate] before handing it to the pipeline.
package recipe

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
)

// Defaults applied by [Recipe.Validate] when a field is omitted.
const (
	DefaultConnectivity = 6
	DefaultSpacing      = 1.0
	DefaultTolerance    = 1e-6
)

// NetworkSpec describes the cubic lattice to generate.
type NetworkSpec struct {
	// Shape is the pore count along x, y and z. All entries must be >= 1.
	Shape [3]int `toml:"shape"`

	// Connectivity selects the neighbor stencil (6, 14, 18, 20 or 26).
	// Defaults to 6.
	Connectivity int `toml:"connectivity"`

	// Spacing is the lattice constant in meters. Defaults to 1.
	Spacing float64 `toml:"spacing"`
}

// ReduceSpec describes an optional coordination reduction step.
type ReduceSpec struct {
	// Coordination is the target average coordination number.
	Coordination float64 `toml:"coordination"`

	// Seed drives the deterministic throat selection.
	Seed uint64 `toml:"seed"`
}

// MixtureSpec describes the gas mixture attached to the network.
type MixtureSpec struct {
	// Name identifies the mixture in output files.
	Name string `toml:"name"`

	// Balance names the species whose fraction is left unset and solved
	// per pore from the remainder. The named species must appear in the
	// species list without a fraction of its own.
	Balance string `toml:"balance"`

	// Tolerance bounds the acceptable deviation from a unit sum.
	// Defaults to 1e-6.
	Tolerance float64 `toml:"tolerance"`
}

// SpeciesSpec describes one species of the mixture.
type SpeciesSpec struct {
	// Name is the species identifier, e.g. "O2".
	Name string `toml:"name"`

	// Fraction is the uniform mole fraction to assign, or nil to leave the
	// species unresolved (required for the balance species).
	Fraction *float64 `toml:"fraction"`

	// Props holds scalar physical properties such as molecular_weight.
	Props map[string]float64 `toml:"props"`
}

// Recipe is a parsed recipe file.
type Recipe struct {
	// Name identifies the recipe. Required.
	Name string `toml:"name"`

	// Network is the lattice to generate. Required.
	Network NetworkSpec `toml:"network"`

	// Reduce is the optional coordination reduction step.
	Reduce *ReduceSpec `toml:"reduce"`

	// Mixture is the optional gas mixture.
	Mixture *MixtureSpec `toml:"mixture"`

	// Species lists the mixture components. Only meaningful when Mixture
	// is set.
	Species []SpeciesSpec `toml:"species"`
}

// Parse decodes a recipe from TOML bytes. The result is not validated; call
// [Recipe.Validate] before use.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidRecipe, err, "failed to parse recipe")
	}
	return &r, nil
}

// Load reads and decodes a recipe file from disk. The result is not
// validated; call [Recipe.Validate] before use.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeFileNotFound, err, "recipe file not found: %s", path)
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidRecipe, err, "failed to read recipe file: %s", path)
	}
	return Parse(data)
}

// Validate checks the recipe for consistency and fills in defaults for
// omitted fields. It returns an error with code
// [pkgerrors.ErrCodeInvalidRecipe] describing the first problem found.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "recipe name is required")
	}

	if err := r.validateNetwork(); err != nil {
		return err
	}

	if r.Reduce != nil && r.Reduce.Coordination <= 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
			"reduce.coordination must be positive, got %g", r.Reduce.Coordination)
	}

	return r.validateMixture()
}

func (r *Recipe) validateNetwork() error {
	for _, n := range r.Network.Shape {
		if n < 1 {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
				"network.shape entries must be >= 1, got %v", r.Network.Shape)
		}
	}

	if r.Network.Connectivity == 0 {
		r.Network.Connectivity = DefaultConnectivity
	}
	switch r.Network.Connectivity {
	case 6, 14, 18, 20, 26:
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
			"network.connectivity must be one of 6, 14, 18, 20, 26, got %d", r.Network.Connectivity)
	}

	if r.Network.Spacing == 0 {
		r.Network.Spacing = DefaultSpacing
	}
	if r.Network.Spacing < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
			"network.spacing must be positive, got %g", r.Network.Spacing)
	}

	return nil
}

func (r *Recipe) validateMixture() error {
	if r.Mixture == nil {
		if len(r.Species) > 0 {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "species listed without a [mixture] section")
		}
		return nil
	}

	if strings.TrimSpace(r.Mixture.Name) == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "mixture.name is required")
	}
	if r.Mixture.Tolerance == 0 {
		r.Mixture.Tolerance = DefaultTolerance
	}
	if r.Mixture.Tolerance < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
			"mixture.tolerance must be positive, got %g", r.Mixture.Tolerance)
	}
	if len(r.Species) == 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "mixture requires at least one [[species]] entry")
	}

	seen := make(map[string]bool, len(r.Species))
	for i, s := range r.Species {
		if strings.TrimSpace(s.Name) == "" {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
				"species[%d] has no name", i)
		}
		if seen[s.Name] {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
				"duplicate species %q", s.Name)
		}
		seen[s.Name] = true
		if s.Fraction != nil && (*s.Fraction < 0 || *s.Fraction > 1) {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
				"species %q fraction must be in [0, 1], got %g", s.Name, *s.Fraction)
		}
	}

	if r.Mixture.Balance != "" {
		if !seen[r.Mixture.Balance] {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
				"balance species %q not in species list", r.Mixture.Balance)
		}
		for _, s := range r.Species {
			if s.Name == r.Mixture.Balance && s.Fraction != nil {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe,
					"balance species %q must not set a fraction", s.Name)
			}
		}
	}

	return nil
}
