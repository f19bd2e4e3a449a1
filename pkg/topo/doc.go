// Package topo provides topology algorithms over pore networks: connected
// components, spanning forests, coordination-number reduction and throat
// trimming.
//
// # Overview
//
// Every function operates on the narrow [Graph] interface rather than a
// concrete network type, so the algorithms apply to any indexed undirected
// multigraph. The network package's Network satisfies [Graph].
//
// # Reducing Coordination
//
// A freshly built cubic lattice has a uniform coordination number (6 for
// face connectivity), which is too regular for most porous materials.
// [ReduceCoordination] lowers the average coordination to a target z by
// deleting randomly chosen throats while keeping the network connected:
// a spanning forest is marked protected, and removals are drawn only from
// the remaining throats.
//
//	plan, err := topo.ReduceCoordination(net, 4, 42)
//	if err != nil {
//	    return err
//	}
//	err = plan.Apply(net)
//
// The two-step shape keeps the computation side-effect free: a [Plan] can be
// inspected, logged or discarded before anything is deleted.
//
// # Determinism
//
// Randomized selection is seeded. The same graph, target and seed always
// produce the identical removal set, so reduced networks are reproducible
// across runs and machines.
package topo
