// Package project bundles a network and its mixtures under one identity.
//
// A [Project] is the unit of persistence: it owns one network, any number of
// named mixtures over that network's pores, and created/modified stamps.
// Ownership is explicit; nothing in this module keeps global state, so two
// projects never interfere with each other.
//
//	p, err := project.New("berea-sample")
//	if err != nil {
//	    return err
//	}
//	p.SetNetwork(net)
//	if err := p.AddMixture("air", air); err != nil {
//	    return err
//	}
//
// Projects are persisted through [github.com/porelab/porenet/pkg/store].
// A Project is not safe for concurrent use.
package project

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/mixture"
	"github.com/porelab/porenet/pkg/network"
)

// Sentinel errors returned by this package.
var (
	// ErrDuplicateMixture is returned by [Project.AddMixture] when the name
	// is already taken.
	ErrDuplicateMixture = errors.New("project: duplicate mixture name")

	// ErrMixtureNotFound is returned for lookups of unknown mixture names.
	ErrMixtureNotFound = errors.New("project: mixture not found")

	// ErrNoNetwork is returned by [Project.AddMixture] when the project has
	// no network to bind the mixture to.
	ErrNoNetwork = errors.New("project: no network")

	// ErrPoreMismatch is returned by [Project.AddMixture] when the mixture
	// spans a different number of pores than the network.
	ErrPoreMismatch = errors.New("project: mixture pore count does not match network")
)

// Project is a named container for one network and its mixtures.
// Create instances with [New] or [Restore]; the zero value is not usable.
type Project struct {
	id       string
	name     string
	network  *network.Network
	mixtures map[string]*mixture.Mixture
	created  time.Time
	modified time.Time
}

// New creates an empty project with a fresh identity. The name must pass
// [pkgerrors.ValidateProjectName] since it doubles as a storage key.
func New(name string) (*Project, error) {
	if err := pkgerrors.ValidateProjectName(name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Project{
		id:       uuid.New().String(),
		name:     name,
		mixtures: make(map[string]*mixture.Mixture),
		created:  now,
		modified: now,
	}, nil
}

// Restore rebuilds a project from persisted state, keeping the given
// identity and stamps. The contents pass the same validation as
// [Project.SetNetwork] and [Project.AddMixture]. It is meant for store
// implementations; new projects should use [New].
func Restore(id, name string, created, modified time.Time, net *network.Network, mixtures map[string]*mixture.Mixture) (*Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "invalid project id %q", id)
	}
	if err := pkgerrors.ValidateProjectName(name); err != nil {
		return nil, err
	}
	p := &Project{
		id:       id,
		name:     name,
		network:  net,
		mixtures: make(map[string]*mixture.Mixture),
		created:  created,
		modified: modified,
	}
	for mixName, m := range mixtures {
		if err := p.insertMixture(mixName, m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ID returns the immutable project identity.
func (p *Project) ID() string { return p.id }

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// CreatedAt returns the creation stamp.
func (p *Project) CreatedAt() time.Time { return p.created }

// ModifiedAt returns the stamp of the last mutating call.
func (p *Project) ModifiedAt() time.Time { return p.modified }

// Rename changes the project name. The new name must pass
// [pkgerrors.ValidateProjectName].
func (p *Project) Rename(name string) error {
	if err := pkgerrors.ValidateProjectName(name); err != nil {
		return err
	}
	p.name = name
	p.touch()
	return nil
}

// SetNetwork attaches a network, replacing any previous one. Mixtures are
// dropped when the network is cleared or the pore count changes, since
// their fraction arrays no longer line up.
func (p *Project) SetNetwork(net *network.Network) {
	if p.network != nil && (net == nil || p.network.PoreCount() != net.PoreCount()) {
		p.mixtures = make(map[string]*mixture.Mixture)
	}
	p.network = net
	p.touch()
}

// Network returns the attached network, or nil.
func (p *Project) Network() *network.Network { return p.network }

// AddMixture registers a mixture under a name. The name must pass
// [pkgerrors.ValidateKeyName], the project must have a network and the
// mixture must span exactly the network's pores.
func (p *Project) AddMixture(name string, m *mixture.Mixture) error {
	if err := p.insertMixture(name, m); err != nil {
		return err
	}
	p.touch()
	return nil
}

func (p *Project) insertMixture(name string, m *mixture.Mixture) error {
	if err := pkgerrors.ValidateKeyName("mixture", name); err != nil {
		return err
	}
	if p.network == nil {
		return ErrNoNetwork
	}
	if _, ok := p.mixtures[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateMixture)
	}
	if m.PoreCount() != p.network.PoreCount() {
		return fmt.Errorf("%q spans %d pores, network has %d: %w",
			name, m.PoreCount(), p.network.PoreCount(), ErrPoreMismatch)
	}
	p.mixtures[name] = m
	return nil
}

// Mixture returns the mixture registered under name.
func (p *Project) Mixture(name string) (*mixture.Mixture, error) {
	m, ok := p.mixtures[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrMixtureNotFound)
	}
	return m, nil
}

// RemoveMixture drops the mixture registered under name.
func (p *Project) RemoveMixture(name string) error {
	if _, ok := p.mixtures[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrMixtureNotFound)
	}
	delete(p.mixtures, name)
	p.touch()
	return nil
}

// MixtureNames returns the registered mixture names in ascending order.
func (p *Project) MixtureNames() []string {
	names := make([]string, 0, len(p.mixtures))
	for name := range p.mixtures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p *Project) touch() { p.modified = time.Now().UTC() }
