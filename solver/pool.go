package solver

import (
	"sync"

	"github.com/notargets/mountainrange/partitions"
	"github.com/notargets/mountainrange/state"
)

var (
	_ Solver = (*Pool)(nil)
	_ Closer = (*Pool)(nil)
)

// Pool is a persistent shared-memory worker pool: N goroutines, each
// pinned to a contiguous sub-range of [0, cells), coordinated by two
// cyclic barriers so that every worker finishes one phase before any
// worker starts the next.
//
// Callers must call DSteepness() before the first Step(), matching the
// driver's own "while dsteepness() > EPS: step(dt)" usage: every
// worker's loop body runs one ds-phase followed by one step-phase, in
// that order, forever, so a bare Step() with no prior DSteepness()
// call has nothing to release it. Call Close when done stepping to
// release the workers.
type Pool struct {
	rg *state.Range
	dt float64

	parts []partitions.Partition

	stepBarrier *cyclicBarrier
	dsBarrier   *cyclicBarrier

	dsMu  sync.Mutex
	dsSum float64

	shutdown bool

	// parkedAt is whichever barrier the workers are currently blocked
	// waiting to enter, so Close can release the right one regardless
	// of whether the caller's last call was Step or DSteepness. Workers
	// start each loop body with the ds-phase, so a fresh Pool parks at
	// dsBarrier before any call is ever made.
	parkedAt *cyclicBarrier
}

// NewPool starts n worker goroutines, each owning the sub-range assigned
// by partitions.Split(cells, rank, n). An n below 1 is treated as 1.
func NewPool(rg *state.Range, n int) (*Pool, error) {
	if n < 1 {
		n = 1
	}
	cells := rg.Size()

	parts := make([]partitions.Partition, n)
	for rank := 0; rank < n; rank++ {
		p, err := partitions.Split(cells, rank, n)
		if err != nil {
			return nil, err
		}
		parts[rank] = p
	}

	pl := &Pool{
		rg:          rg,
		parts:       parts,
		stepBarrier: newCyclicBarrier(n + 1),
		dsBarrier:   newCyclicBarrier(n + 1),
	}
	pl.parkedAt = pl.dsBarrier

	for rank := 0; rank < n; rank++ {
		go pl.worker(rank)
	}

	return pl, nil
}

func (pl *Pool) worker(rank int) {
	part := pl.parts[rank]
	cells := pl.rg.Size()

	lo := part.First
	if lo == 0 {
		lo = 1
	}
	hi := part.Last
	if hi == cells {
		hi = cells - 1
	}

	for {
		// Ds phase entry: mirrors the driver's standalone DSteepness()
		// call that always precedes the next Step (or ends the run).
		pl.dsBarrier.arrive()
		if pl.shutdown {
			return
		}

		h := pl.rg.Height()
		g := pl.rg.Growth()
		local := 0.0
		for i := lo; i < hi; i++ {
			local += state.DSCell(h, g, i, cells)
		}
		pl.dsMu.Lock()
		pl.dsSum += local
		pl.dsMu.Unlock()

		// Ds phase exit.
		pl.dsBarrier.arrive()
		if pl.shutdown {
			return
		}

		// Step phase, round 1: driver has stored dt and released us.
		pl.stepBarrier.arrive()
		if pl.shutdown {
			return
		}

		h = pl.rg.Height()
		g = pl.rg.Growth()
		r := pl.rg.UpliftRate()
		dt := pl.dt

		newH := make([]float64, part.Len())
		for i := part.First; i < part.Last; i++ {
			newH[i-part.First] = state.HNewCell(h, g, i, dt)
		}
		// Round 2: all workers have computed newH; safe to publish.
		pl.stepBarrier.arrive()
		if pl.shutdown {
			return
		}
		copy(h[part.First:part.Last], newH)

		// Round 3: all workers have published h; safe to read neighbours.
		pl.stepBarrier.arrive()
		if pl.shutdown {
			return
		}
		for i := lo; i < hi; i++ {
			g[i] = state.GNewCell(r, h, i)
		}

		// Round 4: every worker has finished writing g. Only past this
		// arrive may the driver touch g, e.g. for the boundary fix-up.
		pl.stepBarrier.arrive()
		if pl.shutdown {
			return
		}
	}
}

// Step stores dt for the workers, releases them through the four step
// barrier rounds, applies the boundary fix-up, advances t, then reports
// the steepness derivative against the new h and g. That report is a
// plain serial scan rather than a worker-cooperative reduction: at this
// point every worker is blocked waiting to enter the next ds-phase, so
// there is no concurrent writer to race against, and running a second
// ds-phase here would desynchronise the barriers from the driver's own
// alternating DSteepness()/Step() calls.
func (pl *Pool) Step(dt float64) float64 {
	pl.dt = dt

	pl.stepBarrier.arrive() // release round 1
	pl.stepBarrier.arrive() // release round 2
	pl.stepBarrier.arrive() // release round 3
	pl.stepBarrier.arrive() // release round 4
	pl.parkedAt = pl.dsBarrier

	state.ApplyBoundaryFixup(pl.rg.Growth())
	pl.rg.SetSimTime(pl.rg.SimTime() + dt)

	h := pl.rg.Height()
	g := pl.rg.Growth()
	cells := pl.rg.Size()
	sum := 0.0
	for i := 1; i < cells-1; i++ {
		sum += state.DSCell(h, g, i, cells)
	}
	return sum
}

// DSteepness runs one ds-phase barrier round and returns the
// accumulated sum, resetting the accumulator for the next call.
func (pl *Pool) DSteepness() float64 {
	pl.dsMu.Lock()
	pl.dsSum = 0
	pl.dsMu.Unlock()

	pl.dsBarrier.arrive() // entry
	pl.dsBarrier.arrive() // exit
	pl.parkedAt = pl.stepBarrier

	pl.dsMu.Lock()
	total := pl.dsSum
	pl.dsMu.Unlock()
	return total
}

// Close signals shutdown and releases every worker through one final
// barrier crossing on whichever barrier they are currently parked at.
// A worker is always blocked waiting to enter its next phase whenever
// the driver is not mid-call: at dsBarrier if the last completed call
// was Step (or if no call has been made yet), at stepBarrier if the
// last completed call was DSteepness. parkedAt tracks that so Close
// works regardless of which method the caller last invoked, including
// the case where driver.Solve returns early — e.g. a snapshot write
// failure right after Step, before the next DSteepness check — and the
// deferred Close fires with workers parked at dsBarrier rather than
// stepBarrier. A second call returns at once.
func (pl *Pool) Close() {
	if pl.shutdown {
		return
	}
	pl.shutdown = true
	pl.parkedAt.arrive()
}
