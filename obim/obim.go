package obim

import "github.com/shayshani/corograph/worklist"

// OBIM combines the scatter-side priority map with the gather-side
// partition queues, sharing one item shape T across both roles: an
// algorithm's pushFunc produces the same kind of item whether it lands in
// a priority bucket (during Scatter, ordered by round/delta index) or a
// partition queue (during Gather, ordered only by destination partition).
type OBIM[T any] struct {
	Priority   *PriorityMap[T]
	Partitions *PartitionQueues[T]
}

// New wires a priority map and partition queues for numThreads workers and
// numPart destination partitions. frontierChunkCap sizes the chunk pool
// of the priority map's staging bags. updateChunkCap is not used here:
// the facing buffers Sync drains into the partition queues take their
// chunks from a separate pool built by UpdatePool.
func New[T any](numThreads int, numPart uint32, socketOf []int, frontierChunkCap, updateChunkCap int, queueCap, gatherQCap uint64) *OBIM[T] {
	return &OBIM[T]{
		Priority:   NewPriorityMap[T](numThreads, worklist.NewChunkPool[T](frontierChunkCap), queueCap),
		Partitions: NewPartitionQueues[T](numPart, socketOf, queueCap, gatherQCap),
	}
}

// UpdatePool exposes a chunk pool sized for update items, used by the
// executor's per-thread facing buffers (Bag[Item]) during Scatter/Sync.
func UpdatePool[T any](capacity int) *worklist.ChunkPool[T] {
	return worklist.NewChunkPool[T](capacity)
}

// Quiescent reports whether every partition queue is currently empty. The
// engine's termination check does not call it; it decides from each
// thread's scattered/gathered counts instead.
func (o *OBIM[T]) Quiescent() bool {
	return o.Partitions.Empty()
}
