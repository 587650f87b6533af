// Package obim implements the Ordered-By-Integer-Metric work queue (C4):
// scatter-side priority buckets synchronized via a lazy shared log, and
// gather-side per-partition queues advertised through per-socket
// lock-free queues with work stealing.
package obim

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shayshani/corograph/worklist"
)

// bucket holds one priority index's chunk queue. worklist.ChunkQueue is
// multi-producer/single-consumer, but a bucket has no fixed owner: any
// thread whose scan lands on the lowest non-empty index may try to drain
// it, including two threads at once. popMu serializes those draws so the
// queue only ever sees one consumer at a time; production (Push) stays
// lock-free.
type bucket[T any] struct {
	queue *worklist.ChunkQueue[T]
	popMu sync.Mutex
}

func (b *bucket[T]) pop() (*worklist.Chunk[T], bool) {
	b.popMu.Lock()
	defer b.popMu.Unlock()
	return b.queue.Pop()
}

type logEntry[T any] struct {
	index  uint32
	bucket *bucket[T]
}

// thread is one worker's local mirror of the master log, plus the two
// priorities it tracks per 4.4: curIndex (the bucket being drained) and
// scanStart (the lowest index it has ever published to).
type thread[T any] struct {
	local    map[uint32]*bucket[T]
	indices  []uint32 // sorted mirror of the keys of local, for ordered scans
	replayed int      // master log entries already replayed into local/indices
	lastVer  uint64

	curIndex  uint32
	scanStart atomic.Uint32
	hasScan   atomic.Bool

	pending map[uint32]*worklist.Bag[T] // per-index staging before a full chunk is published
}

// PriorityMap is the scatter side of OBIM: per-thread priority-bucket
// maps kept loosely in sync via a shared append-only master log.
type PriorityMap[T any] struct {
	pool         *worklist.ChunkPool[T]
	queueCap     uint64
	masterMu     sync.Mutex
	masterLog    []logEntry[T]
	masterVer    atomic.Uint64
	threads      []*thread[T]
	numThreads   int
}

// NewPriorityMap creates the scatter side for numThreads workers. pool
// supplies chunks for staging pushed items; queueCap bounds each bucket's
// backing ring buffer, which never grows: a Push into a full bucket backs
// off and retries until a consumer frees a slot.
func NewPriorityMap[T any](numThreads int, pool *worklist.ChunkPool[T], queueCap uint64) *PriorityMap[T] {
	pm := &PriorityMap[T]{pool: pool, queueCap: queueCap, numThreads: numThreads}
	pm.threads = make([]*thread[T], numThreads)
	for i := range pm.threads {
		pm.threads[i] = &thread[T]{
			local:   make(map[uint32]*bucket[T]),
			pending: make(map[uint32]*worklist.Bag[T]),
		}
	}
	return pm
}

// Push stages item under priority index, publishing a full chunk to the
// bucket once the thread-local staging bag fills. Never fails: the chunk
// pool falls back to a fresh allocation, so only a Go out-of-memory
// failure can stop it.
func (pm *PriorityMap[T]) Push(item T, index uint32, threadID int) {
	th := pm.threads[threadID]
	th.markScanStart(index)
	bag, ok := th.pending[index]
	if !ok {
		bag = worklist.NewBag[T](pm.pool)
		th.pending[index] = bag
	}
	bag.Add(item)
	for _, c := range bag.TakeDone() {
		pm.publish(c, index, th)
	}
}

// PushChunk publishes an already-full chunk directly, bypassing the
// staging bag. The executor does not call it: its Gather step pushes each
// new frontier item through Push.
func (pm *PriorityMap[T]) PushChunk(chunk *worklist.Chunk[T], index uint32, threadID int) {
	th := pm.threads[threadID]
	th.markScanStart(index)
	pm.publish(chunk, index, th)
}

// Flush publishes any partially-filled staged chunk for every index a
// thread has pushed to, so nothing is left stranded at round end.
func (pm *PriorityMap[T]) Flush(threadID int) {
	th := pm.threads[threadID]
	for index, bag := range th.pending {
		for _, c := range bag.TakeDone() {
			pm.publish(c, index, th)
		}
		if c := bag.TakeCurrent(); c != nil {
			pm.publish(c, index, th)
		}
	}
}

func (t *thread[T]) markScanStart(index uint32) {
	if !t.hasScan.Load() || index < t.scanStart.Load() {
		t.scanStart.Store(index)
		t.hasScan.Store(true)
	}
}

func (pm *PriorityMap[T]) publish(chunk *worklist.Chunk[T], index uint32, th *thread[T]) {
	b := pm.getOrCreateBucket(index, th)
	b.queue.Push(chunk)
}

func (pm *PriorityMap[T]) getOrCreateBucket(index uint32, th *thread[T]) *bucket[T] {
	if b, ok := th.local[index]; ok {
		return b
	}
	pm.syncLocal(th)
	if b, ok := th.local[index]; ok {
		return b
	}
	pm.masterMu.Lock()
	defer pm.masterMu.Unlock()
	for i := th.replayed; i < len(pm.masterLog); i++ {
		e := pm.masterLog[i]
		th.local[e.index] = e.bucket
		th.indices = append(th.indices, e.index)
	}
	th.replayed = len(pm.masterLog)
	if b, ok := th.local[index]; ok {
		return b
	}
	b := &bucket[T]{queue: worklist.NewChunkQueue[T](pm.queueCap)}
	pm.masterLog = append(pm.masterLog, logEntry[T]{index: index, bucket: b})
	th.local[index] = b
	th.indices = append(th.indices, index)
	th.replayed = len(pm.masterLog)
	th.lastVer = pm.masterVer.Add(1)
	sort.Slice(th.indices, func(i, j int) bool { return th.indices[i] < th.indices[j] })
	return b
}

// syncLocal replays master log entries this thread hasn't seen yet, but
// only takes the lock when the shared version counter shows there is
// something new (4.4's lazy-synchronization contract).
func (pm *PriorityMap[T]) syncLocal(th *thread[T]) {
	v := pm.masterVer.Load()
	if v == th.lastVer {
		return
	}
	pm.masterMu.Lock()
	n := len(pm.masterLog)
	for i := th.replayed; i < n; i++ {
		e := pm.masterLog[i]
		th.local[e.index] = e.bucket
		th.indices = append(th.indices, e.index)
	}
	if n > th.replayed {
		sort.Slice(th.indices, func(i, j int) bool { return th.indices[i] < th.indices[j] })
	}
	th.replayed = n
	th.lastVer = v
	pm.masterMu.Unlock()
}

// minScanStart is the lowest index any thread has ever published to.
// Every thread computes it for itself in Pop, as a flat scan across all
// threads; there is no per-socket leader reduction.
func (pm *PriorityMap[T]) minScanStart() uint32 {
	min := ^uint32(0)
	for _, th := range pm.threads {
		if !th.hasScan.Load() {
			continue
		}
		if s := th.scanStart.Load(); s < min {
			min = s
		}
	}
	return min
}

// Pop drains the thread's current bucket if it still has work; otherwise
// scans local buckets from the global minimum scanStart upward for the
// lowest non-empty one. Returns false only when both attempts come up
// empty — callers combine this with the gather side per 4.4's pop
// contract.
func (pm *PriorityMap[T]) Pop(threadID int) (*worklist.Chunk[T], bool) {
	th := pm.threads[threadID]
	if b, ok := th.local[th.curIndex]; ok {
		if c, ok := b.pop(); ok {
			return c, true
		}
	}
	pm.syncLocal(th)
	start := pm.minScanStart()
	for _, idx := range th.indices {
		if idx < start {
			continue
		}
		b := th.local[idx]
		if c, ok := b.pop(); ok {
			th.curIndex = idx
			return c, true
		}
	}
	return nil, false
}

// LowestNonEmpty reports the lowest bucket index this thread currently
// sees with a non-empty queue, used by the OBIM soft-priority test (8):
// in single-thread mode the first Pop must come from this index.
func (pm *PriorityMap[T]) LowestNonEmpty(threadID int) (index uint32, ok bool) {
	th := pm.threads[threadID]
	pm.syncLocal(th)
	for _, idx := range th.indices {
		if th.local[idx].queue.Len() > 0 {
			return idx, true
		}
	}
	return 0, false
}
