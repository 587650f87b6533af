// Package cc implements connected components as a thin engine.Algorithm
// adapter: each vertex's label converges to the minimum id among itself
// and the vertices that can reach it along out-edges (for a symmetric
// graph, the minimum id in its component), propagated over the same
// OBIM-scheduled Scatter/Sync/Gather loop SSSP uses, with the update rule
// reduced to a min-id merge via utils.AtomicMinUint32.
package cc

import (
	"github.com/shayshani/corograph/engine"
	"github.com/shayshani/corograph/utils"
)

// CC holds one run's per-vertex component label.
type CC struct {
	label []uint32
}

// New allocates label state for numV vertices, each initially its own id
// (every vertex starts as its own singleton component).
func New(numV uint32) *CC {
	c := &CC{label: make([]uint32, numV)}
	for i := range c.label {
		c.label[i] = uint32(i)
	}
	return c
}

// Labels exposes the final per-vertex component ids.
func (c *CC) Labels() []uint32 { return c.label }

// SeedAll builds the initial frontier: every vertex announces its own id,
// so every vertex starts active.
func (c *CC) SeedAll(numV uint32) []engine.Item {
	items := make([]engine.Item, numV)
	for v := uint32(0); v < numV; v++ {
		items[v] = engine.Item{Vid: v, Val: float64(v)}
	}
	return items
}

// Filter never drops a CC item outright; a stale (already-superseded)
// label is harmless since Gather's atomic min silently no-ops on it.
func (c *CC) Filter(vid uint32, candidateVal float64) bool { return false }

// ApplyWeight ignores edge weight: CC propagates the label unchanged.
func (c *CC) ApplyWeight(edgeWeight uint32, srcVal float64) float64 { return srcVal }

// Touch warms dst's label slot ahead of Gather's real read.
func (c *CC) Touch(vid uint32) {
	_ = c.label[vid]
}

// Gather keeps the minimum label seen for dst, atomically.
func (c *CC) Gather(dst uint32, destCandidateVal float64) bool {
	old := utils.AtomicMinUint32(&c.label[dst], uint32(destCandidateVal))
	return uint32(destCandidateVal) < old
}

// Push builds the frontier item propagating dst's improved label.
func (c *CC) Push(dst uint32, newVal float64) engine.Item {
	return engine.Item{Vid: dst, Val: newVal}
}

// Index buckets everything into a single priority: CC has no notion of
// distance-based ordering, so every update is equally urgent.
func (c *CC) Index(item engine.Item) uint32 { return 0 }

var _ engine.Algorithm = (*CC)(nil)
