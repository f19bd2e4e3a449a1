package recipe

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
)

const airRecipe = `name = "air-diffusion"

[network]
shape        = [10, 10, 10]
connectivity = 6
spacing      = 1e-4

[reduce]
coordination = 4.5
seed         = 42

[mixture]
name    = "air"
balance = "N2"

[[species]]
name     = "O2"
fraction = 0.21

[species.props]
molecular_weight = 0.032

[[species]]
name = "N2"

[species.props]
molecular_weight = 0.028
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(airRecipe))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if r.Name != "air-diffusion" {
		t.Errorf("Name = %q, want %q", r.Name, "air-diffusion")
	}
	if r.Network.Shape != [3]int{10, 10, 10} {
		t.Errorf("Network.Shape = %v, want [10 10 10]", r.Network.Shape)
	}
	if r.Network.Spacing != 1e-4 {
		t.Errorf("Network.Spacing = %g, want 1e-4", r.Network.Spacing)
	}
	if r.Reduce == nil || r.Reduce.Coordination != 4.5 || r.Reduce.Seed != 42 {
		t.Errorf("Reduce = %+v, want coordination 4.5 seed 42", r.Reduce)
	}
	if r.Mixture == nil || r.Mixture.Balance != "N2" {
		t.Errorf("Mixture = %+v, want balance N2", r.Mixture)
	}
	if len(r.Species) != 2 {
		t.Fatalf("len(Species) = %d, want 2", len(r.Species))
	}
	if r.Species[0].Fraction == nil || *r.Species[0].Fraction != 0.21 {
		t.Errorf("O2 fraction = %v, want 0.21", r.Species[0].Fraction)
	}
	if r.Species[1].Fraction != nil {
		t.Errorf("N2 fraction = %v, want unset", *r.Species[1].Fraction)
	}
	if mw := r.Species[1].Props["molecular_weight"]; mw != 0.028 {
		t.Errorf("N2 molecular_weight = %g, want 0.028", mw)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	_, err := Parse([]byte("name = [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid TOML, got nil")
	}
	if code := pkgerrors.GetCode(err); code != pkgerrors.ErrCodeInvalidRecipe {
		t.Errorf("code = %q, want %q", code, pkgerrors.ErrCodeInvalidRecipe)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "air.toml")
	if err := os.WriteFile(path, []byte(airRecipe), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Name != "air-diffusion" {
		t.Errorf("Name = %q, want %q", r.Name, "air-diffusion")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if code := pkgerrors.GetCode(err); code != pkgerrors.ErrCodeFileNotFound {
		t.Errorf("code = %q, want %q", code, pkgerrors.ErrCodeFileNotFound)
	}
}

func TestValidate_Defaults(t *testing.T) {
	r := &Recipe{
		Name:    "bare",
		Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if r.Network.Connectivity != DefaultConnectivity {
		t.Errorf("Connectivity = %d, want %d", r.Network.Connectivity, DefaultConnectivity)
	}
	if r.Network.Spacing != DefaultSpacing {
		t.Errorf("Spacing = %g, want %g", r.Network.Spacing, DefaultSpacing)
	}
}

func TestValidate_MixtureTolerance(t *testing.T) {
	frac := 1.0
	r := &Recipe{
		Name:    "tol",
		Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
		Mixture: &MixtureSpec{Name: "gas"},
		Species: []SpeciesSpec{{Name: "He", Fraction: &frac}},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if r.Mixture.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %g, want %g", r.Mixture.Tolerance, DefaultTolerance)
	}
}

func TestValidate_Errors(t *testing.T) {
	frac := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		recipe Recipe
	}{
		{
			name:   "missing name",
			recipe: Recipe{Network: NetworkSpec{Shape: [3]int{2, 2, 2}}},
		},
		{
			name:   "zero shape",
			recipe: Recipe{Name: "r", Network: NetworkSpec{Shape: [3]int{2, 0, 2}}},
		},
		{
			name: "bad connectivity",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}, Connectivity: 8},
			},
		},
		{
			name: "negative spacing",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}, Spacing: -1},
			},
		},
		{
			name: "non-positive coordination",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Reduce:  &ReduceSpec{Coordination: 0},
			},
		},
		{
			name: "species without mixture",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Species: []SpeciesSpec{{Name: "O2"}},
			},
		},
		{
			name: "mixture without species",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air"},
			},
		},
		{
			name: "mixture without name",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{},
				Species: []SpeciesSpec{{Name: "O2", Fraction: frac(1)}},
			},
		},
		{
			name: "negative tolerance",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air", Tolerance: -1e-6},
				Species: []SpeciesSpec{{Name: "O2", Fraction: frac(1)}},
			},
		},
		{
			name: "unnamed species",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air"},
				Species: []SpeciesSpec{{Name: ""}},
			},
		},
		{
			name: "duplicate species",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air"},
				Species: []SpeciesSpec{{Name: "O2", Fraction: frac(0.5)}, {Name: "O2"}},
			},
		},
		{
			name: "fraction out of range",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air"},
				Species: []SpeciesSpec{{Name: "O2", Fraction: frac(1.5)}},
			},
		},
		{
			name: "balance species missing",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air", Balance: "Ar"},
				Species: []SpeciesSpec{{Name: "O2", Fraction: frac(1)}},
			},
		},
		{
			name: "balance species with fraction",
			recipe: Recipe{
				Name:    "r",
				Network: NetworkSpec{Shape: [3]int{2, 2, 2}},
				Mixture: &MixtureSpec{Name: "air", Balance: "N2"},
				Species: []SpeciesSpec{{Name: "N2", Fraction: frac(0.79)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if code := pkgerrors.GetCode(err); code != pkgerrors.ErrCodeInvalidRecipe {
				t.Errorf("code = %q, want %q", code, pkgerrors.ErrCodeInvalidRecipe)
			}
		})
	}
}

func TestValidate_FullRecipe(t *testing.T) {
	r, err := Parse([]byte(airRecipe))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if r.Mixture.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %g, want default %g", r.Mixture.Tolerance, DefaultTolerance)
	}
}
