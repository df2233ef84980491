// bufferpool.go - preallocated slab pool for asynchronous buffer reads

package softcut

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// defaultPoolSlabs and defaultPoolSlabCapacity size the free-list pool
// that backs CmdBufferRead. A read request longer than one slab is
// clamped to the slab's capacity — the same "clamp, never fault"
// discipline the spec applies to every other out-of-range access.
const (
	defaultPoolSlabs        = 4
	defaultPoolSlabCapacity = 10 * SampleRate // 10 seconds per slab
)

// bufferPool is a small, fixed set of preallocated float32 slabs that
// CmdBufferRead draws from on the audio thread instead of allocating.
// Slot selection itself is lock-free (the busy flags below are plain
// atomics, CAS'd in a loop); semaphore.Weighted.TryAcquire sits in
// front of that loop purely as a fast, always-non-blocking slab-count
// check. TryAcquire does take an internal sync.Mutex briefly — the one
// deliberate exception to "the audio side never takes a lock" in this
// package — but it never waits: on CmdBufferRead, a request beyond
// capacity is rejected immediately (ErrCapacity / EventCapacity), the
// same outcome a fully lock-free counter would give, at the cost of a
// microseconds-long uncontended lock/unlock on an infrequent,
// non-per-frame path.
//
// Grounded on the spec's explicit preference ("a lock-free pool is
// preferred") over audio-thread allocation; golang.org/x/sync/semaphore
// is a dependency of the reference engine's own module graph (pulled
// in only transitively there) promoted here to direct, load-bearing
// use.
type bufferPool struct {
	sem   *semaphore.Weighted
	slabs [][]float32
	busy  []atomic.Bool
}

func newBufferPool(slabs, capacity int) *bufferPool {
	p := &bufferPool{
		sem:   semaphore.NewWeighted(int64(slabs)),
		slabs: make([][]float32, slabs),
		busy:  make([]atomic.Bool, slabs),
	}
	for i := range p.slabs {
		p.slabs[i] = make([]float32, capacity)
	}
	return p
}

// acquire checks out one free slab without blocking. ok is false if
// every slab is currently in use.
func (p *bufferPool) acquire() (slot int, slab []float32, ok bool) {
	if !p.sem.TryAcquire(1) {
		return -1, nil, false
	}
	for i := range p.busy {
		if p.busy[i].CompareAndSwap(false, true) {
			return i, p.slabs[i], true
		}
	}
	// Unreachable under correct semaphore accounting: the semaphore's
	// count is always kept in lockstep with the number of free slots.
	p.sem.Release(1)
	return -1, nil, false
}

// release returns slot to the free pool. It is a no-op for slot < 0,
// so callers may release the result of a failed acquire unconditionally.
func (p *bufferPool) release(slot int) {
	if slot < 0 {
		return
	}
	p.busy[slot].Store(false)
	p.sem.Release(1)
}

func (p *bufferPool) slabCapacity() int {
	if len(p.slabs) == 0 {
		return 0
	}
	return len(p.slabs[0])
}
