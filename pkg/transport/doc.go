// Package transport solves steady-state linear transport on pore networks.
//
// # Overview
//
// An [Algorithm] models conserved scalar transport (diffusion, heat
// conduction, viscous flow in the Darcy limit) where the rate through each
// throat is proportional to the difference of a quantity between its two
// pores. The caller supplies the per-throat conductance array; how it is
// derived from geometry and physics is outside this package.
//
// # Basic Usage
//
//	alg, err := transport.New(net, "concentration", conductance)
//	if err != nil {
//	    return err
//	}
//	if err := alg.SetValueLabel(1.0, network.LabelFront); err != nil {
//	    return err
//	}
//	if err := alg.SetValueLabel(0.0, network.LabelBack); err != nil {
//	    return err
//	}
//	if err := alg.Run(ctx); err != nil {
//	    return err
//	}
//	rate, err := alg.Rate(net.PoresWithLabel(network.LabelBack))
//
// # Method
//
// Run eliminates the Dirichlet pores from the weighted graph Laplacian and
// solves the remaining symmetric positive definite system with conjugate
// gradient on a compressed sparse row matrix. Every connected component of
// the network must contain at least one boundary pore, otherwise its
// potential level is undetermined and Run refuses to solve.
//
// # Concurrency
//
// An Algorithm is not safe for concurrent use. Run honors context
// cancellation between iterations.
package transport
