package worklist

// Bag is a per-thread, never-shared-across-threads accumulator of chunks:
// items are appended one at a time; once the current chunk fills, it is
// retired into Bag's done list and a fresh chunk is drawn from the pool.
// Used both as the executor's per-partition facing buffers and as
// obim.PriorityMap's per-index staging area, before either is drained
// into a shared queue.
type Bag[T any] struct {
	pool *ChunkPool[T]
	cur  *Chunk[T]
	done []*Chunk[T]
}

// NewBag creates a bag drawing chunks from pool.
func NewBag[T any](pool *ChunkPool[T]) *Bag[T] {
	return &Bag[T]{pool: pool}
}

// Add appends item, retiring the current chunk and drawing a new one if
// needed.
func (b *Bag[T]) Add(item T) {
	if b.cur == nil {
		b.cur = b.pool.Get()
	}
	if !b.cur.Push(item) {
		b.done = append(b.done, b.cur)
		b.cur = b.pool.Get()
		b.cur.Push(item)
	}
}

// TakeDone detaches and returns chunks that have already filled to
// capacity and been retired, leaving the in-progress current chunk (if
// any) untouched. Used by callers that want to publish full chunks as
// soon as they're ready without disturbing the chunk still being filled.
func (b *Bag[T]) TakeDone() []*Chunk[T] {
	d := b.done
	b.done = nil
	return d
}

// TakeCurrent detaches the in-progress chunk (if any and non-empty)
// without returning it to the pool, leaving the bag ready to start a
// fresh chunk on the next Add.
func (b *Bag[T]) TakeCurrent() *Chunk[T] {
	c := b.cur
	b.cur = nil
	if c == nil || c.Len() == 0 {
		return nil
	}
	return c
}

// Chunks returns every chunk holding items added since the last Reset,
// including the not-yet-full current chunk if it holds anything.
func (b *Bag[T]) Chunks() []*Chunk[T] {
	if b.cur != nil && b.cur.Len() > 0 {
		return append(b.done, b.cur)
	}
	return b.done
}

// Len reports the total number of items across all chunks.
func (b *Bag[T]) Len() int {
	n := 0
	for _, c := range b.done {
		n += c.Len()
	}
	if b.cur != nil {
		n += b.cur.Len()
	}
	return n
}

// Reset empties the bag, returning its chunks to the pool.
func (b *Bag[T]) Reset() {
	for _, c := range b.done {
		b.pool.Put(c)
	}
	if b.cur != nil {
		b.pool.Put(b.cur)
	}
	b.done = b.done[:0]
	b.cur = nil
}
