package obim

import (
	"testing"

	"github.com/shayshani/corograph/worklist"
)

func TestPriorityMapOrdersByLowestBucket(t *testing.T) {
	pool := worklist.NewChunkPool[int](4)
	pm := NewPriorityMap[int](1, pool, 8)

	pm.Push(10, 5, 0)
	pm.Push(20, 5, 0)
	pm.Push(30, 2, 0)
	pm.Flush(0)

	if idx, ok := pm.LowestNonEmpty(0); !ok || idx != 2 {
		t.Fatalf("LowestNonEmpty = (%d, %v), want (2, true)", idx, ok)
	}

	chunk, ok := pm.Pop(0)
	if !ok {
		t.Fatalf("first Pop reported empty")
	}
	if chunk.Pushed() != 1 || chunk.At(0) != 30 {
		t.Fatalf("first Pop returned wrong chunk contents: pushed=%d at0=%v", chunk.Pushed(), chunk.At(0))
	}

	chunk, ok = pm.Pop(0)
	if !ok {
		t.Fatalf("second Pop reported empty")
	}
	if chunk.Pushed() != 2 || chunk.At(0) != 10 || chunk.At(1) != 20 {
		t.Fatalf("second Pop returned wrong chunk contents: %+v", chunk)
	}

	if _, ok := pm.Pop(0); ok {
		t.Fatalf("third Pop should report empty")
	}
}

func TestPriorityMapCrossThreadVisibility(t *testing.T) {
	pool := worklist.NewChunkPool[int](4)
	pm := NewPriorityMap[int](2, pool, 8)

	pm.Push(1, 5, 0)
	pm.Flush(0)
	pm.Push(2, 3, 1)
	pm.Flush(1)

	// A bucket has no fixed owner: thread 0 must be able to see and drain
	// thread 1's lower-indexed bucket once it syncs, and vice versa. Drain
	// from both threads and check every item surfaces exactly once overall.
	total := 0
	for {
		chunk, ok := pm.Pop(0)
		if !ok {
			break
		}
		total += chunk.Pushed()
	}
	for {
		chunk, ok := pm.Pop(1)
		if !ok {
			break
		}
		total += chunk.Pushed()
	}
	if total != 2 {
		t.Fatalf("total items drained across both threads = %d, want 2", total)
	}
}

func TestPartitionQueuesWorkStealingAcrossSockets(t *testing.T) {
	socketOf := []int{0, 1}
	pq := NewPartitionQueues[int](2, socketOf, 8, 8)

	chunk := worklist.NewChunk[int](2)
	chunk.Push(42)
	pq.Scatter(1, chunk, 0) // thread 0 (socket 0) publishes into partition 1

	if pq.Empty() {
		t.Fatalf("Empty() = true right after Scatter")
	}

	// Thread 1 lives on socket 1, which has nothing advertised locally;
	// it must steal the advertisement from socket 0.
	got, pid, ok := pq.PopPartition(1)
	if !ok {
		t.Fatalf("PopPartition(1) reported no work available")
	}
	if pid != 1 {
		t.Fatalf("PopPartition returned partition %d, want 1", pid)
	}
	if item, ok := got.Pop(); !ok || item != 42 {
		t.Fatalf("stolen chunk contents = (%d, %v), want (42, true)", item, ok)
	}

	if !pq.Empty() {
		t.Fatalf("Empty() = false after draining the only chunk")
	}
	if _, _, ok := pq.PopPartition(0); ok {
		t.Fatalf("PopPartition(0) found work after everything drained")
	}
}

func TestOBIMQuiescent(t *testing.T) {
	socketOf := []int{0}
	o := New[int](1, 2, socketOf, 4, 4, 8, 8)
	if !o.Quiescent() {
		t.Fatalf("a freshly built OBIM should be quiescent")
	}
	chunk := worklist.NewChunk[int](2)
	chunk.Push(7)
	o.Partitions.Scatter(0, chunk, 0)
	if o.Quiescent() {
		t.Fatalf("OBIM should not be quiescent with a pending chunk")
	}
}
