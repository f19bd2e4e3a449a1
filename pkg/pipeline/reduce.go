package pipeline

import (
	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/topo"
)

// Reduce trims the network in place to the target coordination number and
// returns the applied plan.
func Reduce(net *network.Network, opts Options) (*topo.Plan, error) {
	if err := opts.ValidateForReduce(); err != nil {
		return nil, err
	}

	plan, err := topo.ReduceCoordination(net, opts.Coordination, opts.Seed)
	if err != nil {
		return nil, err
	}
	if err := plan.Apply(net); err != nil {
		return nil, err
	}
	return plan, nil
}
