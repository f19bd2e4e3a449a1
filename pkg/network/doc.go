// Package network provides the pore-network data structure shared by every
// algorithm in porenet.
//
// # Overview
//
// A pore network is an undirected multigraph: pores (vertices) are identified
// by stable non-negative integers, and throats (edges) are unordered pairs of
// pore indices. Throats are indexed 0..ThroatCount()-1; deleting throats
// reindexes the survivors contiguously while preserving their relative order.
// Pores are never deleted.
//
// Alongside the topology, a [Network] carries named per-pore and per-throat
// float property arrays and boolean label sets. Labels mark structural
// subsets (lattice faces, surface pores); properties hold physical data
// (coordinates aside, the package attaches no meaning to either).
//
// # Basic Usage
//
// Build a lattice with [Cubic], or wrap an explicit connection list with
// [New]:
//
//	net, _ := network.Cubic([3]int{4, 4, 4})
//	fmt.Println(net.PoreCount(), net.ThroatCount()) // 64 144
//
//	inlet := net.PoresWithLabel(network.LabelFront)
//
// Topology algorithms live in the topo package and operate on networks
// through a narrow interface, so they apply equally to any graph type with
// the same surface.
//
// # Concurrency
//
// Network instances are not safe for concurrent use. Callers must serialize
// mutating calls ([Network.RemoveThroats], label and property setters)
// against a given instance.
package network
