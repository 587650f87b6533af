package worklist

import "github.com/shayshani/corograph/utils"

// ChunkQueue is the lock-free linked chunk queue (C3): thread-safe
// multi-producer/single-consumer insert of chunks, where Pop returns a
// full chunk at once. Backed directly by utils.RingBuffMPSC, whose
// contract (multiple producers advancing a shared enqueue counter via
// CAS, a single consumer draining sequentially) is exactly this
// component's contract — one queue per OBIM priority bucket, one per
// partition.
type ChunkQueue[T any] struct {
	rb utils.RingBuffMPSC[*Chunk[T]]
}

// NewChunkQueue creates a queue with room for at least capacity chunks
// (rounded up to a power of two internally).
func NewChunkQueue[T any](capacity uint64) *ChunkQueue[T] {
	q := &ChunkQueue[T]{}
	q.rb.Init(capacity)
	return q
}

// Push publishes a chunk, blocking (with backoff) if the queue is
// momentarily full. Returns whether the queue was empty immediately
// before this push — used to decide whether the pushing thread must also
// advertise the queue (e.g. into a gather queue).
func (q *ChunkQueue[T]) Push(c *Chunk[T]) (wasEmptyBefore bool) {
	wasEmptyBefore = q.rb.Len() == 0
	if pos, ok := q.rb.PutFastMP(c); !ok {
		q.rb.PutSlowMP(c, pos)
	}
	return wasEmptyBefore
}

// Pop removes and returns the next full chunk, or false if the queue is
// currently empty. Single-consumer only.
func (q *ChunkQueue[T]) Pop() (*Chunk[T], bool) {
	return q.rb.Accept()
}

// Len is an approximate count of chunks currently queued.
func (q *ChunkQueue[T]) Len() uint64 {
	return q.rb.Len()
}
