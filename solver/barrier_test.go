package solver

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCyclicBarrierReleasesAllParticipants(t *testing.T) {
	const n = 5
	b := newCyclicBarrier(n)

	var released int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			b.arrive()
			atomic.AddInt32(&released, 1)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("barrier did not release all participants")
	}
	assert.EqualValues(t, n, released)
}

func TestCyclicBarrierIsReusable(t *testing.T) {
	const n = 3
	b := newCyclicBarrier(n)

	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				b.arrive()
			}()
		}
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d did not complete", round)
		}
	}
}
