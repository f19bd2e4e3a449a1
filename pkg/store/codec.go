package store

import (
	"fmt"
	"math"
	"time"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/project"
)

// projectDoc is the persisted form of a project. The same document shape
// serves the JSON file backend and the BSON mongo backend. Unresolved mole
// fractions are stored as nulls because JSON cannot carry NaN.
type projectDoc struct {
	ID         string       `json:"id" bson:"_id"`
	Name       string       `json:"name" bson:"name"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	ModifiedAt time.Time    `json:"modified_at" bson:"modified_at"`
	Network    *networkDoc  `json:"network,omitempty" bson:"network,omitempty"`
	Mixtures   []mixtureDoc `json:"mixtures,omitempty" bson:"mixtures,omitempty"`
}

type networkDoc struct {
	Pores        int                  `json:"pores" bson:"pores"`
	Conns        [][2]int             `json:"conns" bson:"conns"`
	Coords       [][3]float64         `json:"coords,omitempty" bson:"coords,omitempty"`
	PoreLabels   map[string][]int     `json:"pore_labels,omitempty" bson:"pore_labels,omitempty"`
	ThroatLabels map[string][]int     `json:"throat_labels,omitempty" bson:"throat_labels,omitempty"`
	PoreProps    map[string][]float64 `json:"pore_props,omitempty" bson:"pore_props,omitempty"`
	ThroatProps  map[string][]float64 `json:"throat_props,omitempty" bson:"throat_props,omitempty"`
}

type mixtureDoc struct {
	Name      string       `json:"name" bson:"name"`
	Pores     int          `json:"pores" bson:"pores"`
	Tolerance float64      `json:"tolerance" bson:"tolerance"`
	Species   []speciesDoc `json:"species" bson:"species"`
}

type speciesDoc struct {
	Name      string             `json:"name" bson:"name"`
	Props     map[string]float64 `json:"props,omitempty" bson:"props,omitempty"`
	Fractions []*float64         `json:"fractions" bson:"fractions"`
}

func encodeProject(p *project.Project) *projectDoc {
	doc := &projectDoc{
		ID:         p.ID(),
		Name:       p.Name(),
		CreatedAt:  p.CreatedAt(),
		ModifiedAt: p.ModifiedAt(),
	}

	if net := p.Network(); net != nil {
		doc.Network = encodeNetwork(net)
	}
	for _, name := range p.MixtureNames() {
		m, err := p.Mixture(name)
		if err != nil {
			continue
		}
		doc.Mixtures = append(doc.Mixtures, encodeMixture(name, m))
	}
	return doc
}

func encodeNetwork(net *network.Network) *networkDoc {
	doc := &networkDoc{
		Pores:  net.PoreCount(),
		Conns:  net.Throats(),
		Coords: net.Coords(),
	}
	if names := net.PoreLabelNames(); len(names) > 0 {
		doc.PoreLabels = make(map[string][]int, len(names))
		for _, name := range names {
			doc.PoreLabels[name] = net.PoresWithLabel(name)
		}
	}
	if names := net.ThroatLabelNames(); len(names) > 0 {
		doc.ThroatLabels = make(map[string][]int, len(names))
		for _, name := range names {
			doc.ThroatLabels[name] = net.ThroatsWithLabel(name)
		}
	}
	if names := net.PorePropNames(); len(names) > 0 {
		doc.PoreProps = make(map[string][]float64, len(names))
		for _, name := range names {
			vals, _ := net.PoreProp(name)
			doc.PoreProps[name] = vals
		}
	}
	if names := net.ThroatPropNames(); len(names) > 0 {
		doc.ThroatProps = make(map[string][]float64, len(names))
		for _, name := range names {
			vals, _ := net.ThroatProp(name)
			doc.ThroatProps[name] = vals
		}
	}
	return doc
}

func encodeMixture(name string, m *mixture.Mixture) mixtureDoc {
	doc := mixtureDoc{
		Name:      name,
		Pores:     m.PoreCount(),
		Tolerance: m.Tolerance(),
	}
	for _, sn := range m.SpeciesNames() {
		sp, _ := m.Species(sn)
		fr, _ := m.Fraction(sn)

		fractions := make([]*float64, len(fr))
		for i, v := range fr {
			if mixture.Unresolved(v) {
				continue
			}
			x := v
			fractions[i] = &x
		}
		doc.Species = append(doc.Species, speciesDoc{
			Name:      sp.Name,
			Props:     sp.Props,
			Fractions: fractions,
		})
	}
	return doc
}

func decodeProject(doc *projectDoc) (*project.Project, error) {
	var net *network.Network
	if doc.Network != nil {
		decoded, err := decodeNetwork(doc.Network)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err,
				"project %s has a corrupt network document", doc.ID)
		}
		net = decoded
	}

	mixtures := make(map[string]*mixture.Mixture, len(doc.Mixtures))
	for _, md := range doc.Mixtures {
		m, err := decodeMixture(&md)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err,
				"project %s has a corrupt mixture %q", doc.ID, md.Name)
		}
		mixtures[md.Name] = m
	}

	p, err := project.Restore(doc.ID, doc.Name, doc.CreatedAt, doc.ModifiedAt, net, mixtures)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err,
			"project %s does not restore", doc.ID)
	}
	return p, nil
}

func decodeNetwork(doc *networkDoc) (*network.Network, error) {
	net, err := network.New(doc.Pores, doc.Conns)
	if err != nil {
		return nil, fmt.Errorf("conns: %w", err)
	}
	if doc.Coords != nil {
		if err := net.SetCoords(doc.Coords); err != nil {
			return nil, fmt.Errorf("coords: %w", err)
		}
	}
	for name, indices := range doc.PoreLabels {
		if err := net.LabelPores(name, indices); err != nil {
			return nil, fmt.Errorf("pore label %q: %w", name, err)
		}
	}
	for name, indices := range doc.ThroatLabels {
		if err := net.LabelThroats(name, indices); err != nil {
			return nil, fmt.Errorf("throat label %q: %w", name, err)
		}
	}
	for name, vals := range doc.PoreProps {
		if err := net.SetPoreProp(name, vals); err != nil {
			return nil, fmt.Errorf("pore prop %q: %w", name, err)
		}
	}
	for name, vals := range doc.ThroatProps {
		if err := net.SetThroatProp(name, vals); err != nil {
			return nil, fmt.Errorf("throat prop %q: %w", name, err)
		}
	}
	return net, nil
}

func decodeMixture(doc *mixtureDoc) (*mixture.Mixture, error) {
	m, err := mixture.New(doc.Pores, mixture.WithTolerance(doc.Tolerance))
	if err != nil {
		return nil, err
	}
	for _, sd := range doc.Species {
		if err := m.AddSpecies(mixture.Species{Name: sd.Name, Props: sd.Props}); err != nil {
			return nil, fmt.Errorf("species %q: %w", sd.Name, err)
		}

		fractions := make([]float64, len(sd.Fractions))
		for i, v := range sd.Fractions {
			if v == nil {
				fractions[i] = math.NaN()
				continue
			}
			fractions[i] = *v
		}
		if err := m.RestoreFractions(sd.Name, fractions); err != nil {
			return nil, fmt.Errorf("species %q: %w", sd.Name, err)
		}
	}
	return m, nil
}
