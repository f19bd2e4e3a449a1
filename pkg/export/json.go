package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/porelab/porenet/pkg/network"
)

type networkDoc struct {
	Pores        int                  `json:"pores"`
	Conns        [][2]int             `json:"conns"`
	Coords       [][3]float64         `json:"coords,omitempty"`
	PoreLabels   map[string][]int     `json:"pore_labels,omitempty"`
	ThroatLabels map[string][]int     `json:"throat_labels,omitempty"`
	PoreProps    map[string][]float64 `json:"pore_props,omitempty"`
	ThroatProps  map[string][]float64 `json:"throat_props,omitempty"`
}

func buildDoc(net *network.Network) networkDoc {
	doc := networkDoc{
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

// WriteJSON encodes a network as JSON and writes it to w.
// The output includes conns, coords, all labels and all props, and can be
// re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(net *network.Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildDoc(net)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a network to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(net, f)
}

// ReadJSON decodes a JSON network from r.
//
// The input must be an object with a "pores" count and a "conns" array; the
// coords, label and prop sections are optional. All data passes through the
// network constructor and setters, so ReadJSON returns an error if:
//
//   - The JSON is malformed
//   - A conn references a pore outside [0, pores)
//   - A label index is out of range
//   - A coords or prop array has the wrong length
//
// Errors are wrapped with the name of the label or prop that caused the
// problem. The returned network is independent of r and can be modified
// safely after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	var doc networkDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

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

// ImportJSON reads a JSON file at path and returns the decoded network.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
