package solver

import (
	"github.com/exascience/pargo/parallel"

	"github.com/notargets/mountainrange/state"
)

var _ Solver = (*Bulk)(nil)

// Bulk expresses each step phase as a data-parallel range over the cell
// array, the GPU-style "for_each / transform_reduce" idiom, using pargo's
// work-stealing scheduler in place of a real accelerator.
type Bulk struct {
	rg *state.Range
}

// NewBulk wraps rg for data-parallel stepping.
func NewBulk(rg *state.Range) *Bulk {
	return &Bulk{rg: rg}
}

// Step runs the h-update over [0, cells) and the g-update over
// [1, cells-1) as parallel.Range calls, applies the boundary fix-up
// serially, advances t, and returns the resulting steepness derivative.
func (b *Bulk) Step(dt float64) float64 {
	h := b.rg.Height()
	g := b.rg.Growth()
	r := b.rg.UpliftRate()
	n := b.rg.Size()

	newH := make([]float64, n)
	parallel.Range(0, n, 0, func(low, high int) {
		for i := low; i < high; i++ {
			newH[i] = state.HNewCell(h, g, i, dt)
		}
	})
	copy(h, newH)

	parallel.Range(1, n-1, 0, func(low, high int) {
		for i := low; i < high; i++ {
			g[i] = state.GNewCell(r, h, i)
		}
	})
	state.ApplyBoundaryFixup(g)

	b.rg.SetSimTime(b.rg.SimTime() + dt)

	return b.DSteepness()
}

// DSteepness runs the ds reduction over [1, cells-1) as a
// parallel.RangeReduceFloat64 call.
func (b *Bulk) DSteepness() float64 {
	h := b.rg.Height()
	g := b.rg.Growth()
	n := b.rg.Size()

	return parallel.RangeReduceFloat64(1, n-1, 0,
		func(low, high int) (result float64) {
			for i := low; i < high; i++ {
				result += state.DSCell(h, g, i, n)
			}
			return
		},
		func(a, b float64) float64 {
			return a + b
		},
	)
}
