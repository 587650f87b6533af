package utils

import (
	"sync/atomic"
)

// Enqueuer : Producer
// Dequeuer : Consumer
// SP : Single Producer
// MP : Multiple Producers
// SC : Single Consumer
// MC : Multiple Consumers (not implemented)

// MP or SP, but make sure you use it with the right calls (i.e., only use SP calls if you know you are the only possible producer at the time).
type RingBuffMPSC[T any] struct {
	_          [0]atomic.Int64
	enqueue    uint64
	enqMask    uint64
	enqEntries []PosElement[T]
	_          [3]uint64
	dequeue    uint64
	deqMask    uint64
	deqEntries []PosElement[T]
	status     uint64
	_          [2]uint64
}

type PosElement[T any] struct {
	position uint64
	element  T
}

// Will allocate and initialize the ring buffer with the specified size.
func (rb *RingBuffMPSC[T]) Init(size uint64) {
	size = RoundUpPow(size)
	rb.enqMask = (size - 1)
	rb.deqMask = rb.enqMask
	rb.deqEntries = make([]PosElement[T], size)
	for i := 0; i < int(size); i++ {
		rb.deqEntries[i].position = uint64(i)
	}
	rb.enqEntries = rb.deqEntries
}

// Returns the total capacity of the ring buffer. Call this if you are the dequeuer (to avoid loading the enqueuer cache line).
func (rb *RingBuffMPSC[T]) DeqCap() uint64 {
	return rb.deqMask + 1
}

// Returns the total capacity of the ring buffer. Call this if you are the enqueuer (to avoid loading the dequeuer cache line).
func (rb *RingBuffMPSC[T]) EnqCap() uint64 {
	return rb.enqMask + 1
}

// Might not be accurate if there are concurrent accesses. Should only be used for an estimate.
// Loads both cache lines!
func (rb *RingBuffMPSC[T]) Len() uint64 {
	return atomic.LoadUint64(&rb.enqueue) - atomic.LoadUint64(&rb.dequeue)
}

// Should be called by the enqueuer.
func (rb *RingBuffMPSC[T]) Close() {
	atomic.StoreUint64(&rb.status, 1)
}

// To be called by dequeuer after after it sees close (and has dequeued everything).
func (rb *RingBuffMPSC[T]) End() {
	rb.enqEntries = nil
	rb.deqEntries = nil
}

// Dequeuer: How many elements available to dequeue
func (rb *RingBuffMPSC[T]) DeqCheckRange() uint64 {
	return atomic.LoadUint64(&rb.enqueue) - rb.dequeue
}

// (SingleProducer) Enqueuer: Offers the item. Just returns false if no item available.
func (rb *RingBuffMPSC[T]) OfferSP(item T) bool {
	pos := rb.enqueue
	n := &rb.enqEntries[pos&rb.enqMask]
	if atomic.LoadUint64(&n.position) == pos {
		n.element = item
		rb.enqueue++
		atomic.StoreUint64(&n.position, pos+1)
		return true
	}
	return false
}

// (SingleProducer) Enqueuer: Blocking add of the item part 1, MOVES FORWARD, must call PutSlowSP if !ok.
func (rb *RingBuffMPSC[T]) PutFastSP(item T) (pos uint64, ok bool) {
	pos = rb.enqueue
	rb.enqueue++
	n := &rb.enqEntries[pos&rb.enqMask]
	if atomic.LoadUint64(&n.position) == pos {
		n.element = item
		atomic.StoreUint64(&n.position, pos+1)
		return pos, true
	}
	return pos, false
}

// (SingleProducer) Enqueuer: Blocking add of the item part 2, to the position (from PutFastSP). Blocks until added.
func (rb *RingBuffMPSC[T]) PutSlowSP(item T, pos uint64) (fails int) {
	n := &rb.enqEntries[pos&rb.enqMask]
	for ; ; fails++ {
		if atomic.LoadUint64(&n.position) == pos {
			n.element = item
			atomic.StoreUint64(&n.position, pos+1)
			return
		}
		BackOff(fails) // Full
	}
}

// Dequeuer: Return the next item, or false if empty.
func (rb *RingBuffMPSC[T]) Accept() (item T, ok bool) {
	pos := rb.dequeue
	n := &rb.deqEntries[pos&rb.deqMask]
	if atomic.LoadUint64(&n.position) == (pos + 1) {
		item = n.element
		rb.dequeue++
		atomic.StoreUint64(&n.position, (pos + 1 + rb.deqMask))
		return item, true
	}
	return item, false
}

// Dequeuer: Blocking get of the item part 1, MOVES FORWARD, must call GetSlow if !ok.
func (rb *RingBuffMPSC[T]) GetFast() (item T, ok bool, pos uint64) {
	n := &rb.deqEntries[rb.dequeue&rb.deqMask]
	rb.dequeue++
	pos = rb.dequeue
	if atomic.LoadUint64(&n.position) == pos {
		item = n.element
		atomic.StoreUint64(&n.position, (pos + rb.deqMask))
		return item, true, pos
	}
	return item, false, pos
}

// Dequeuer: Blocking get of the item part 2, from the position (from GetFast). Blocks until retrieved.
func (rb *RingBuffMPSC[T]) GetSlow(pos uint64) (item T, closed bool, fails int) {
	n := &rb.deqEntries[(pos-1)&rb.deqMask]
	for ; ; fails++ {
		if atomic.LoadUint64(&n.position) == pos {
			item = n.element
			atomic.StoreUint64(&n.position, (pos + rb.deqMask))
			return item, false, fails
		}
		if atomic.LoadUint64(&rb.status) == 1 {
			return item, true, fails
		}
		BackOff(fails) // Empty
	}
}

// (MultipleProducers) Enqueuer: Offer item. Return false on failure. Does not advance position.
func (rb *RingBuffMPSC[T]) OfferMP(item T) (ok bool) {
	pos := atomic.LoadUint64(&rb.enqueue)
	n := &rb.enqEntries[pos&rb.enqMask]
	if atomic.LoadUint64(&n.position) == pos {
		if atomic.CompareAndSwapUint64(&rb.enqueue, pos, pos+1) {
			n.element = item
			atomic.StoreUint64(&n.position, pos+1)
			return true
		}
	}
	return false
}

// (MultipleProducers) Enqueuer: Blocking add of the item part 1, MOVES FORWARD, must call PutSlowMP if !ok.
func (rb *RingBuffMPSC[T]) PutFastMP(item T) (myPos uint64, ok bool) {
	myPos = atomic.AddUint64(&rb.enqueue, 1) - 1
	n := &rb.enqEntries[myPos&rb.enqMask]
	if atomic.LoadUint64(&n.position) == myPos {
		n.element = item
		atomic.StoreUint64(&n.position, myPos+1)
		return myPos, true
	}
	return myPos, false
}

// (MultipleProducers) Enqueuer: Blocking add of the item part 2, to the position (from PutFastMP). Blocks until added.
func (rb *RingBuffMPSC[T]) PutSlowMP(item T, myPos uint64) (fails int) {
	n := &rb.enqEntries[myPos&rb.enqMask]
	for ; ; fails++ {
		if atomic.LoadUint64(&n.position) == myPos {
			n.element = item
			atomic.StoreUint64(&n.position, myPos+1)
			return
		}
		BackOff(fails) // Full
	}
}
