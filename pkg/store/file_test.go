package store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/project"
)

func sampleProject(t *testing.T, name string) *project.Project {
	t.Helper()

	net, err := network.Cubic([3]int{2, 2, 2}, network.WithSpacing(1e-4))
	if err != nil {
		t.Fatal(err)
	}
	if err := net.SetThroatProp("length", make([]float64, net.ThroatCount())); err != nil {
		t.Fatal(err)
	}

	m, err := mixture.New(net.PoreCount(), mixture.WithTolerance(1e-5))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddSpecies(mixture.Species{
		Name:  "O2",
		Props: map[string]float64{mixture.PropMolecularWeight: 0.032},
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddSpecies(mixture.Species{
		Name:  "N2",
		Props: map[string]float64{mixture.PropMolecularWeight: 0.028},
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetFraction("O2", 0.21); err != nil {
		t.Fatal(err)
	}

	p, err := project.New(name)
	if err != nil {
		t.Fatal(err)
	}
	p.SetNetwork(net)
	if err := p.AddMixture("air", m); err != nil {
		t.Fatal(err)
	}
	return p
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := sampleProject(t, "berea")

	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, p.ID())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.ID() != p.ID() || got.Name() != "berea" {
		t.Errorf("identity = %q %q, want %q %q", got.ID(), got.Name(), p.ID(), "berea")
	}
	if !got.CreatedAt().Equal(p.CreatedAt()) || !got.ModifiedAt().Equal(p.ModifiedAt()) {
		t.Errorf("stamps changed: %v %v vs %v %v",
			got.CreatedAt(), got.ModifiedAt(), p.CreatedAt(), p.ModifiedAt())
	}

	net := got.Network()
	if net == nil {
		t.Fatal("network not restored")
	}
	if net.PoreCount() != 8 || net.ThroatCount() != 12 {
		t.Errorf("network = %d pores %d throats, want 8 and 12", net.PoreCount(), net.ThroatCount())
	}
	if len(net.PoresWithLabel(network.LabelSurface)) != 8 {
		t.Error("surface label not restored")
	}
	if _, ok := net.ThroatProp("length"); !ok {
		t.Error("throat prop not restored")
	}
	if net.Coords() == nil || net.Coords()[0] != [3]float64{0.5e-4, 0.5e-4, 0.5e-4} {
		t.Errorf("coords not restored: %v", net.Coords()[0])
	}

	m, err := got.Mixture("air")
	if err != nil {
		t.Fatalf("mixture not restored: %v", err)
	}
	if m.Tolerance() != 1e-5 {
		t.Errorf("tolerance = %g, want 1e-5", m.Tolerance())
	}
	o2, _ := m.Fraction("O2")
	if o2[3] != 0.21 {
		t.Errorf("O2 fraction = %g, want 0.21", o2[3])
	}
	n2, _ := m.Fraction("N2")
	if !math.IsNaN(n2[0]) {
		t.Errorf("N2 fraction = %g, want unresolved NaN", n2[0])
	}
	sp, _ := m.Species("N2")
	if mw, _ := sp.Prop(mixture.PropMolecularWeight); mw != 0.028 {
		t.Errorf("N2 molecular weight = %g, want 0.028", mw)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "no-such-id")
	if code := pkgerrors.GetCode(err); code != pkgerrors.ErrCodeProjectNotFound {
		t.Errorf("code = %q, want %q", code, pkgerrors.ErrCodeProjectNotFound)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := sampleProject(t, "first")

	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := p.Rename("second"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, p.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "second" {
		t.Errorf("Name() = %q, want %q", got.Name(), "second")
	}
}

func TestFileStore_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(ctx, sampleProject(t, name)); err != nil {
			t.Fatal(err)
		}
	}
	// Corrupt files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(s.Path(), "junk.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if infos[i].Name != want {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, want)
		}
		if infos[i].ID == "" || infos[i].ModifiedAt.IsZero() {
			t.Errorf("infos[%d] incomplete: %+v", i, infos[i])
		}
	}
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := sampleProject(t, "gone")

	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, p.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := s.Delete(ctx, p.ID()); pkgerrors.GetCode(err) != pkgerrors.ErrCodeProjectNotFound {
		t.Errorf("second delete: code = %q, want %q",
			pkgerrors.GetCode(err), pkgerrors.ErrCodeProjectNotFound)
	}
	if _, err := s.Load(ctx, p.ID()); pkgerrors.GetCode(err) != pkgerrors.ErrCodeProjectNotFound {
		t.Error("project still loadable after delete")
	}
}

func TestFileStore_ProjectWithoutNetwork(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := project.New("empty")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, p.ID())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Network() != nil {
		t.Error("expected nil network")
	}
	if len(got.MixtureNames()) != 0 {
		t.Errorf("expected no mixtures, got %v", got.MixtureNames())
	}
}
