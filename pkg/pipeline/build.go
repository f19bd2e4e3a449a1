package pipeline

import (
	"bytes"
	"fmt"

	"github.com/porelab/porenet/pkg/export"
	"github.com/porelab/porenet/pkg/network"
)

// Build generates the cubic lattice described by the options.
func Build(opts Options) (*network.Network, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	return network.Cubic(opts.Shape,
		network.WithConnectivity(opts.Connectivity),
		network.WithSpacing(opts.Spacing))
}

// marshalNetwork serializes a network to its JSON document form. The same
// bytes serve as cache values, content hashes and the json artifact.
func marshalNetwork(net *network.Network) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WriteJSON(net, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unmarshalNetwork restores a network from its JSON document form.
func unmarshalNetwork(data []byte) (*network.Network, error) {
	net, err := export.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cached network: %w", err)
	}
	return net, nil
}
