// Package state owns the Range: the uplift rate r, surface height h,
// growth rate g, and simulation time t that every solver strategy in
// package solver advances. It also defines the per-cell kernels shared by
// every strategy, so the numerics live in exactly one place.
package state

import (
	"fmt"
	"io"

	"github.com/notargets/mountainrange/mrerrors"
	"github.com/notargets/mountainrange/wireformat"
)

// Range is the full simulation state. r is immutable after construction;
// h and g are mutated in place by a solver.Solver each step.
type Range struct {
	cells int
	t     float64
	r     []float64
	h     []float64
	g     []float64
}

// New builds a Range from an uplift rate and initial height, with t = 0.
// It immediately runs the g-update kernel and boundary fix-up so that g is
// consistent with (r, h) before any caller observes the Range, matching
// the "step(0)" idiom in MountainRangeBasic's constructor.
func New(r, h []float64) (*Range, error) {
	if len(r) != len(h) {
		return nil, fmt.Errorf("%w: uplift rate length %d does not match height length %d",
			mrerrors.ErrCorruptInput, len(r), len(h))
	}
	if len(h) < 3 {
		return nil, fmt.Errorf("%w: cells must be at least 3, got %d", mrerrors.ErrCorruptInput, len(h))
	}

	rg := &Range{
		cells: len(h),
		r:     append([]float64(nil), r...),
		h:     append([]float64(nil), h...),
		g:     make([]float64, len(h)),
	}
	rg.initializeGrowth()
	return rg, nil
}

// initializeGrowth applies the interior g-update kernel against the
// as-constructed (r, h) and the boundary fix-up, without touching h or t.
// This is what New and FromStream call to satisfy the "g is consistent"
// invariant.
func (rg *Range) initializeGrowth() {
	for i := 1; i < rg.cells-1; i++ {
		rg.g[i] = GNewCell(rg.r, rg.h, i)
	}
	ApplyBoundaryFixup(rg.g)
}

// FromStream decodes a Range from the little-endian binary format
// described in wireformat. It rejects ndims != 1 or a size mismatch with
// mrerrors.ErrUnsupportedDimensions / mrerrors.ErrCorruptInput.
func FromStream(rd io.Reader) (*Range, error) {
	hdr, r, h, err := wireformat.Decode(rd)
	if err != nil {
		return nil, err
	}
	rg := &Range{
		cells: int(hdr.Cells),
		t:     hdr.T,
		r:     r,
		h:     h,
		g:     make([]float64, len(h)),
	}
	rg.initializeGrowth()
	return rg, nil
}

// WriteTo encodes the Range in the wireformat layout.
func (rg *Range) WriteTo(w io.Writer) error {
	return wireformat.Encode(w, rg.t, rg.r, rg.h)
}

// Height returns the current surface height. The returned slice aliases
// Range's internal storage; callers must not mutate it outside a solver.
func (rg *Range) Height() []float64 { return rg.h }

// Growth returns the current growth rate.
func (rg *Range) Growth() []float64 { return rg.g }

// UpliftRate returns the immutable uplift rate.
func (rg *Range) UpliftRate() []float64 { return rg.r }

// SimTime returns the current simulation time t.
func (rg *Range) SimTime() float64 { return rg.t }

// SetSimTime advances the recorded simulation time. Solvers call this
// after completing a step; it is not meant for general use.
func (rg *Range) SetSimTime(t float64) { rg.t = t }

// Size returns the number of cells.
func (rg *Range) Size() int { return rg.cells }

// HNewCell applies the h-update kernel: h[i] + dt*g[i]. Valid for every
// index 0 <= i < len(h); the h-update has no neighbour dependency.
func HNewCell(h, g []float64, i int, dt float64) float64 {
	return h[i] + dt*g[i]
}

// GNewCell applies the interior g-update kernel:
// g[i] = r[i] - h[i]^3 + (h[i-1]+h[i+1])/2 - h[i]. Valid only for interior
// indices 1 <= i <= len(h)-2.
func GNewCell(r, h []float64, i int) float64 {
	l := (h[i-1]+h[i+1])/2 - h[i]
	return r[i] - h[i]*h[i]*h[i] + l
}

// DSCell applies the interior steepness-derivative kernel. Valid only for
// interior indices 1 <= i <= cells-2.
func DSCell(h, g []float64, i, cells int) float64 {
	return (h[i-1] - h[i+1]) * (g[i-1] - g[i+1]) / 2 / float64(cells-2)
}

// ApplyBoundaryFixup sets g[0] := g[1] and g[n-1] := g[n-2], the
// Neumann-style zero-gradient boundary policy every strategy applies
// after its interior g-update pass.
func ApplyBoundaryFixup(g []float64) {
	n := len(g)
	g[0] = g[1]
	g[n-1] = g[n-2]
}
