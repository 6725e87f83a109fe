// Package solver implements the four interchangeable stepping strategies
// for a mountain range: Basic (serial reference), Pool (persistent
// goroutine worker pool with barriers), Bulk (data-parallel via pargo),
// and Distributed (goroutine-per-participant halo exchange). All four
// produce numerically equivalent results modulo floating-point
// associativity, since they share the per-cell kernels in package state.
package solver

// Solver advances a mountain range's state by one timestep and reports the
// steepness derivative used to decide when to stop.
type Solver interface {
	// Step advances the simulation by dt, mutating the underlying
	// state.Range in place and returning the resulting steepness
	// derivative computed against the *new* h and g.
	Step(dt float64) float64

	// DSteepness returns the steepness derivative for the current state
	// without advancing time. Used for the initial termination check
	// before the first Step.
	DSteepness() float64
}

// Closer is implemented by strategies that hold background resources
// (goroutines, channels) that must be released once the caller is done
// stepping. Not every Solver needs one: Basic and Bulk are stateless
// between calls.
type Closer interface {
	Close()
}
