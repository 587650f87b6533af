package worklist

import "sync"

// ChunkPool recycles chunks of a fixed capacity. Backed by sync.Pool,
// whose per-P free lists stand in for a per-socket pool: allocation still
// falls back to a fresh chunk (sync.Pool's own fallback) rather than ever
// failing, so true exhaustion (an allocation that cannot be satisfied at
// all) can only happen if the runtime itself is out of memory, which
// surfaces as an ordinary Go OOM rather than a distinct chunk-pool error
// path.
type ChunkPool[T any] struct {
	capacity int
	pool     sync.Pool
}

// NewChunkPool creates a pool of chunks with the given fixed capacity.
func NewChunkPool[T any](capacity int) *ChunkPool[T] {
	p := &ChunkPool[T]{capacity: capacity}
	p.pool.New = func() any { return NewChunk[T](capacity) }
	return p
}

// Get returns an empty chunk, either recycled or freshly allocated.
func (p *ChunkPool[T]) Get() *Chunk[T] {
	c := p.pool.Get().(*Chunk[T])
	c.Reset()
	return c
}

// Put returns a chunk to the pool for reuse.
func (p *ChunkPool[T]) Put(c *Chunk[T]) {
	p.pool.Put(c)
}
