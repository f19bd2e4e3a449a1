package network

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned by [Cubic] when any lattice dimension is smaller
	// than one.
	ErrShape = errors.New("lattice dimensions must be positive")

	// ErrConnectivity is returned by [Cubic] when the connectivity is not
	// one of 6, 14, 18, 20 or 26.
	ErrConnectivity = errors.New("unsupported connectivity")

	// ErrSpacing is returned by [Cubic] when the lattice spacing is not
	// positive.
	ErrSpacing = errors.New("lattice spacing must be positive")
)

// Face labels assigned by [Cubic]. Front and back bound the x axis, left and
// right the y axis, bottom and top the z axis. Surface is the union of the
// six faces and internal is its complement.
const (
	LabelFront    = "front"
	LabelBack     = "back"
	LabelLeft     = "left"
	LabelRight    = "right"
	LabelBottom   = "bottom"
	LabelTop      = "top"
	LabelSurface  = "surface"
	LabelInternal = "internal"
)

// Neighbor offset classes for cubic lattices. Only the forward half of each
// class is listed; the reverse throats are the same pairs read backwards.
var (
	faceOffsets   = [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	cornerOffsets = [][3]int{{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1}}
	edgeOffsets   = [][3]int{{1, 1, 0}, {1, -1, 0}, {1, 0, 1}, {1, 0, -1}, {0, 1, 1}, {0, 1, -1}}
)

type cubicConfig struct {
	connectivity int
	spacing      float64
}

// CubicOption configures the [Cubic] builder.
type CubicOption func(*cubicConfig)

// WithConnectivity selects which neighbor classes are connected:
//
//	 6: faces
//	14: faces and corners
//	18: faces and edges
//	20: corners and edges
//	26: faces, corners and edges
//
// The default is 6. Interior pores reach the full count; pores on the hull
// have fewer neighbors.
func WithConnectivity(c int) CubicOption {
	return func(cfg *cubicConfig) { cfg.connectivity = c }
}

// WithSpacing sets the center-to-center lattice spacing used for pore
// coordinates. The default is 1.
func WithSpacing(s float64) CubicOption {
	return func(cfg *cubicConfig) { cfg.spacing = s }
}

// Cubic builds the topology of an X×Y×Z cubic lattice.
//
// Pores are indexed in row-major order with z fastest: pore (i, j, k) has
// index i*Y*Z + j*Z + k, at coordinate ((i+0.5)s, (j+0.5)s, (k+0.5)s).
// Throats are generated one neighbor offset at a time in a fixed order, so
// the same shape and options always produce the identical network. The six
// hull faces are labelled (see [LabelFront] and friends) along with
// [LabelSurface] and [LabelInternal].
func Cubic(shape [3]int, opts ...CubicOption) (*Network, error) {
	cfg := cubicConfig{connectivity: 6, spacing: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if shape[0] < 1 || shape[1] < 1 || shape[2] < 1 {
		return nil, fmt.Errorf("shape %v: %w", shape, ErrShape)
	}
	if cfg.spacing <= 0 {
		return nil, fmt.Errorf("spacing %v: %w", cfg.spacing, ErrSpacing)
	}

	var offsets [][3]int
	switch cfg.connectivity {
	case 6:
		offsets = faceOffsets
	case 14:
		offsets = append(offsets, faceOffsets...)
		offsets = append(offsets, cornerOffsets...)
	case 18:
		offsets = append(offsets, faceOffsets...)
		offsets = append(offsets, edgeOffsets...)
	case 20:
		offsets = append(offsets, cornerOffsets...)
		offsets = append(offsets, edgeOffsets...)
	case 26:
		offsets = append(offsets, faceOffsets...)
		offsets = append(offsets, cornerOffsets...)
		offsets = append(offsets, edgeOffsets...)
	default:
		return nil, fmt.Errorf("connectivity %d: %w", cfg.connectivity, ErrConnectivity)
	}

	nx, ny, nz := shape[0], shape[1], shape[2]
	index := func(i, j, k int) int { return i*ny*nz + j*nz + k }

	var conns [][2]int
	for _, off := range offsets {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				for k := 0; k < nz; k++ {
					ni, nj, nk := i+off[0], j+off[1], k+off[2]
					if ni < 0 || ni >= nx || nj < 0 || nj >= ny || nk < 0 || nk >= nz {
						continue
					}
					conns = append(conns, [2]int{index(i, j, k), index(ni, nj, nk)})
				}
			}
		}
	}

	net, err := New(nx*ny*nz, conns)
	if err != nil {
		return nil, err
	}

	coords := make([][3]float64, 0, net.PoreCount())
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				coords = append(coords, [3]float64{
					(float64(i) + 0.5) * cfg.spacing,
					(float64(j) + 0.5) * cfg.spacing,
					(float64(k) + 0.5) * cfg.spacing,
				})
			}
		}
	}
	if err := net.SetCoords(coords); err != nil {
		return nil, err
	}

	labelFaces(net, shape, index)
	return net, nil
}

// labelFaces assigns the hull labels from lattice indices. Every face label
// exists even when the face is empty of distinct pores (a flat lattice puts
// the same pore on opposite faces).
func labelFaces(net *Network, shape [3]int, index func(i, j, k int) int) {
	nx, ny, nz := shape[0], shape[1], shape[2]
	faces := map[string][]int{
		LabelFront:  nil,
		LabelBack:   nil,
		LabelLeft:   nil,
		LabelRight:  nil,
		LabelBottom: nil,
		LabelTop:    nil,
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				p := index(i, j, k)
				if i == 0 {
					faces[LabelFront] = append(faces[LabelFront], p)
				}
				if i == nx-1 {
					faces[LabelBack] = append(faces[LabelBack], p)
				}
				if j == 0 {
					faces[LabelLeft] = append(faces[LabelLeft], p)
				}
				if j == ny-1 {
					faces[LabelRight] = append(faces[LabelRight], p)
				}
				if k == 0 {
					faces[LabelBottom] = append(faces[LabelBottom], p)
				}
				if k == nz-1 {
					faces[LabelTop] = append(faces[LabelTop], p)
				}
			}
		}
	}

	surface := make([]bool, net.PoreCount())
	for name, pores := range faces {
		_ = net.LabelPores(name, pores) // indices come from the lattice walk
		for _, p := range pores {
			surface[p] = true
		}
	}

	var surf, internal []int
	for p, on := range surface {
		if on {
			surf = append(surf, p)
		} else {
			internal = append(internal, p)
		}
	}
	_ = net.LabelPores(LabelSurface, surf)
	_ = net.LabelPores(LabelInternal, internal)
}
