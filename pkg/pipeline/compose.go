package pipeline

import (
	"fmt"

	"github.com/porelab/porenet/pkg/mixture"
)

// Compose builds a mixture over the given number of pores from the species
// options and resolves the per-pore mole fractions. Species without a
// fraction are filled by the sum constraint.
func Compose(pores int, opts Options) (*mixture.Mixture, error) {
	if err := opts.ValidateForCompose(); err != nil {
		return nil, err
	}

	var mopts []mixture.Option
	if opts.Tolerance > 0 {
		mopts = append(mopts, mixture.WithTolerance(opts.Tolerance))
	}
	m, err := mixture.New(pores, mopts...)
	if err != nil {
		return nil, err
	}

	for _, s := range opts.Species {
		if err := m.AddSpecies(mixture.Species{Name: s.Name, Props: s.Props}); err != nil {
			return nil, fmt.Errorf("species %q: %w", s.Name, err)
		}
		if s.Fraction != nil {
			if err := m.SetFraction(s.Name, *s.Fraction); err != nil {
				return nil, fmt.Errorf("species %q: %w", s.Name, err)
			}
		}
	}

	if err := m.Resolve(); err != nil {
		return nil, err
	}
	return m, nil
}
