package solver

import "sync"

// cyclicBarrier is a reusable rendezvous point for a fixed number of
// goroutines, standing in for C++'s std::barrier since Go's standard
// library has no direct equivalent. Every participant calls arrive, which
// blocks until the last of parties participants has also called arrive,
// at which point all are released together and the barrier resets for its
// next use.
type cyclicBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int
	gen     int
}

// newCyclicBarrier builds a barrier for exactly parties participants.
func newCyclicBarrier(parties int) *cyclicBarrier {
	b := &cyclicBarrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// arrive blocks the calling goroutine until parties goroutines have all
// called arrive on this generation, then releases them all at once.
func (b *cyclicBarrier) arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count++
	if b.count == b.parties {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
