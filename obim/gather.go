package obim

import (
	"github.com/shayshani/corograph/utils"
	"github.com/shayshani/corograph/worklist"
)

// PartitionQueues is the gather side of OBIM (4.4b): one chunk queue per
// partition, advertised through per-socket lock-free queues of partition
// ids so gather workers can find non-empty partitions without scanning
// all of them, with work stealing across sockets when a worker's own
// socket has nothing advertised.
type PartitionQueues[T any] struct {
	queues     []*worklist.ChunkQueue[T]
	socketOf   []int
	gatherQ    []utils.RingBuffMPSC[uint32]
	numSockets int
}

// NewPartitionQueues creates numPart partition queues and one gatherQ per
// socket. socketOf maps a thread id to its socket index (see
// engine.ThreadPool's topology detection).
func NewPartitionQueues[T any](numPart uint32, socketOf []int, queueCap, gatherQCap uint64) *PartitionQueues[T] {
	numSockets := 0
	for _, s := range socketOf {
		if s+1 > numSockets {
			numSockets = s + 1
		}
	}
	pq := &PartitionQueues[T]{
		queues:     make([]*worklist.ChunkQueue[T], numPart),
		socketOf:   socketOf,
		gatherQ:    make([]utils.RingBuffMPSC[uint32], numSockets),
		numSockets: numSockets,
	}
	for p := range pq.queues {
		pq.queues[p] = worklist.NewChunkQueue[T](queueCap)
	}
	for s := range pq.gatherQ {
		pq.gatherQ[s].Init(gatherQCap)
	}
	return pq
}

// Scatter publishes chunk to partitionID's queue, advertising the
// transition into gatherQ when the queue was empty beforehand.
func (pq *PartitionQueues[T]) Scatter(partitionID uint32, chunk *worklist.Chunk[T], threadID int) {
	wasEmpty := pq.queues[partitionID].Push(chunk)
	if wasEmpty {
		pq.advertise(pq.socketOf[threadID], partitionID)
	}
}

func (pq *PartitionQueues[T]) advertise(socket int, partitionID uint32) {
	rb := &pq.gatherQ[socket]
	if pos, ok := rb.PutFastMP(partitionID); !ok {
		rb.PutSlowMP(partitionID, pos)
	}
}

// PopPartition claims a chunk from a non-empty partition, preferring the
// calling thread's own socket and falling back to work-stealing a linear
// scan of the other sockets starting just past its own, wrapping around.
func (pq *PartitionQueues[T]) PopPartition(threadID int) (chunk *worklist.Chunk[T], partitionID uint32, ok bool) {
	home := pq.socketOf[threadID]
	if c, pid, ok := pq.tryPop(home); ok {
		return c, pid, true
	}
	for i := 1; i < pq.numSockets; i++ {
		s := (home + i) % pq.numSockets
		if c, pid, ok := pq.tryPop(s); ok {
			return c, pid, true
		}
	}
	return nil, 0, false
}

func (pq *PartitionQueues[T]) tryPop(socket int) (*worklist.Chunk[T], uint32, bool) {
	pid, ok := pq.gatherQ[socket].Accept()
	if !ok {
		return nil, 0, false
	}
	c, ok := pq.queues[pid].Pop()
	if !ok {
		return nil, 0, false
	}
	if pq.queues[pid].Len() > 0 {
		// More chunks remain queued for this partition; keep it
		// advertised so it gets drained rather than starving.
		pq.advertise(socket, pid)
	}
	return c, pid, true
}

// Empty reports whether every partition queue is currently empty (see
// OBIM.Quiescent).
func (pq *PartitionQueues[T]) Empty() bool {
	for _, q := range pq.queues {
		if q.Len() > 0 {
			return false
		}
	}
	return true
}
