package engine

import "sync"

// Barrier is a reusable two-phase (sense-reversing) barrier: n workers call
// Wait each round; the last arrival flips the sense and releases everyone,
// and the barrier is immediately reusable for the next round without any
// explicit reset call.
type Barrier struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	count   int
	sense   bool
}

// NewBarrier creates a barrier for n participants.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all n participants have called Wait for the current
// round, then returns true for exactly one caller (the one that observed
// the last arrival) so it can perform once-per-round bookkeeping (e.g.
// resetting the termination detector's vote state).
func (b *Barrier) Wait() (last bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mySense := b.sense
	b.count++
	if b.count == b.n {
		b.count = 0
		b.sense = !b.sense
		b.cond.Broadcast()
		return true
	}
	for b.sense == mySense {
		b.cond.Wait()
	}
	return false
}
