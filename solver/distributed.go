package solver

import (
	"sync"

	"github.com/notargets/mountainrange/partitions"
	"github.com/notargets/mountainrange/state"
)

var (
	_ Solver = (*Distributed)(nil)
	_ Closer = (*Distributed)(nil)
)

// Distributed models one participant per goroutine, exchanging halo cells
// and reducing the steepness derivative over channels rather than shared
// memory — the idiomatic Go substitute for MPI point-to-point sends and
// an all-reduce, since no MPI binding exists to bind to directly. Each
// participant keeps a private local array augmented with one halo cell on
// each side it borders, and publishes its owned range back into the
// shared state.Range after every phase.
type Distributed struct {
	rg    *state.Range
	cells int

	stepReq []chan float64
	stepAck []chan struct{}
	dsReq   []chan struct{}
	dsAck   []chan float64

	closeOnce sync.Once
	quit      chan struct{}
}

// NewDistributed starts n participant goroutines, each owning the
// sub-range assigned by partitions.Split(cells, rank, n).
func NewDistributed(rg *state.Range, n int) (*Distributed, error) {
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

	// toRight[r] carries rank r's rightmost owned cell to rank r+1's left
	// halo; toLeft[r] carries rank r+1's leftmost owned cell to rank r's
	// right halo. Buffered so a send never blocks on its receiver's phase.
	toRight := make([]chan float64, n-1)
	toLeft := make([]chan float64, n-1)
	for i := range toRight {
		toRight[i] = make(chan float64, 1)
		toLeft[i] = make(chan float64, 1)
	}

	d := &Distributed{
		rg:      rg,
		cells:   cells,
		stepReq: make([]chan float64, n),
		stepAck: make([]chan struct{}, n),
		dsReq:   make([]chan struct{}, n),
		dsAck:   make([]chan float64, n),
		quit:    make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		d.stepReq[i] = make(chan float64)
		d.stepAck[i] = make(chan struct{})
		d.dsReq[i] = make(chan struct{})
		d.dsAck[i] = make(chan float64)
	}

	for rank := 0; rank < n; rank++ {
		go d.runParticipant(rank, parts[rank], toRight, toLeft)
	}

	return d, nil
}

func (d *Distributed) runParticipant(rank int, part partitions.Partition, toRight, toLeft []chan float64) {
	cells := d.cells

	localOffset := 0
	if part.HasLeftHalo {
		localOffset = 1
	}
	localLen := localOffset + part.Len()
	if part.HasRightHalo {
		localLen++
	}

	localH := make([]float64, localLen)
	localG := make([]float64, localLen)
	localR := make([]float64, localLen)

	copy(localH[localOffset:localOffset+part.Len()], d.rg.Height()[part.First:part.Last])
	copy(localG[localOffset:localOffset+part.Len()], d.rg.Growth()[part.First:part.Last])
	copy(localR[localOffset:localOffset+part.Len()], d.rg.UpliftRate()[part.First:part.Last])
	if part.HasLeftHalo {
		localH[0] = d.rg.Height()[part.First-1]
		localG[0] = d.rg.Growth()[part.First-1]
	}
	if part.HasRightHalo {
		localH[localLen-1] = d.rg.Height()[part.Last]
		localG[localLen-1] = d.rg.Growth()[part.Last]
	}

	exchange := func(local []float64) {
		if part.HasRightHalo {
			toRight[rank] <- local[localOffset+part.Len()-1]
		}
		if part.HasLeftHalo {
			toLeft[rank-1] <- local[localOffset]
		}
		if part.HasLeftHalo {
			local[0] = <-toRight[rank-1]
		}
		if part.HasRightHalo {
			local[localLen-1] = <-toLeft[rank]
		}
	}

	for {
		select {
		case <-d.quit:
			return

		case dt := <-d.stepReq[rank]:
			newOwned := make([]float64, part.Len())
			for k := 0; k < part.Len(); k++ {
				newOwned[k] = state.HNewCell(localH, localG, localOffset+k, dt)
			}
			copy(localH[localOffset:localOffset+part.Len()], newOwned)
			exchange(localH)
			copy(d.rg.Height()[part.First:part.Last], localH[localOffset:localOffset+part.Len()])

			lowGlobal := part.First
			if lowGlobal == 0 {
				lowGlobal = 1
			}
			highGlobal := part.Last
			if highGlobal == cells {
				highGlobal = cells - 1
			}
			for i := lowGlobal; i < highGlobal; i++ {
				li := i - part.First + localOffset
				localG[li] = state.GNewCell(localR, localH, li)
			}
			exchange(localG)

			if part.First == 0 {
				localG[localOffset] = localG[localOffset+1]
			}
			if part.Last == cells {
				localG[localLen-1] = localG[localLen-2]
			}
			copy(d.rg.Growth()[part.First:part.Last], localG[localOffset:localOffset+part.Len()])

			d.stepAck[rank] <- struct{}{}

		case <-d.dsReq[rank]:
			sum := 0.0
			for k := 1; k <= localLen-2; k++ {
				sum += state.DSCell(localH, localG, k, cells)
			}
			d.dsAck[rank] <- sum
		}
	}
}

// Step broadcasts dt to every participant, waits for all halo exchanges
// and the boundary fix-up to complete, advances t, then returns the
// resulting steepness derivative.
func (d *Distributed) Step(dt float64) float64 {
	for i := range d.stepReq {
		d.stepReq[i] <- dt
	}
	for i := range d.stepAck {
		<-d.stepAck[i]
	}
	d.rg.SetSimTime(d.rg.SimTime() + dt)
	return d.DSteepness()
}

// DSteepness triggers every participant's local partial sum and combines
// them into the all-reduce total.
func (d *Distributed) DSteepness() float64 {
	for i := range d.dsReq {
		d.dsReq[i] <- struct{}{}
	}
	total := 0.0
	for i := range d.dsAck {
		total += <-d.dsAck[i]
	}
	return total
}

// Close retires every participant goroutine.
func (d *Distributed) Close() {
	d.closeOnce.Do(func() {
		close(d.quit)
	})
}
