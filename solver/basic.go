package solver

import "github.com/notargets/mountainrange/state"

var _ Solver = (*Basic)(nil)

// Basic is the serial reference strategy: a single goroutine walks every
// cell in order for each phase of a step. It is the strategy every other
// strategy's output is checked against.
type Basic struct {
	rg *state.Range
}

// NewBasic wraps rg for serial stepping.
func NewBasic(rg *state.Range) *Basic {
	return &Basic{rg: rg}
}

// Step performs the h-update pass, then the interior g-update pass, then
// the boundary fix-up, then advances t, then returns the resulting
// steepness derivative.
func (b *Basic) Step(dt float64) float64 {
	h := b.rg.Height()
	g := b.rg.Growth()
	r := b.rg.UpliftRate()
	n := b.rg.Size()

	newH := make([]float64, n)
	for i := 0; i < n; i++ {
		newH[i] = state.HNewCell(h, g, i, dt)
	}
	copy(h, newH)

	for i := 1; i < n-1; i++ {
		g[i] = state.GNewCell(r, h, i)
	}
	state.ApplyBoundaryFixup(g)

	b.rg.SetSimTime(b.rg.SimTime() + dt)

	return b.DSteepness()
}

// DSteepness computes the steepness derivative against the current h and g.
func (b *Basic) DSteepness() float64 {
	h := b.rg.Height()
	g := b.rg.Growth()
	n := b.rg.Size()

	sum := 0.0
	for i := 1; i < n-1; i++ {
		sum += state.DSCell(h, g, i, n)
	}
	return sum
}
