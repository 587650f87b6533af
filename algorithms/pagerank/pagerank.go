// Package pagerank implements a residual-driven PageRank as a thin
// engine.Algorithm adapter: each vertex accumulates incoming rank mass in
// a residual accumulator, and re-enters the frontier once its residual
// crosses a convergence threshold, at which point it drains the residual
// and redistributes its damped share evenly across its out-edges.
package pagerank

import (
	"math"

	"github.com/shayshani/corograph/engine"
	"github.com/shayshani/corograph/utils"
)

const (
	// Damping is the standard PageRank damping factor.
	Damping = 0.85
	// Threshold is the minimum residual that re-triggers propagation;
	// below this a vertex's remaining mass is considered converged.
	Threshold = 1e-6
)

// PageRank holds one run's per-vertex rank and outstanding residual, plus
// each vertex's out-degree (needed to split outgoing mass evenly, since
// PageRank ignores edge weights).
type PageRank struct {
	rank     []float64
	residual []float64
	outDeg   []uint32
	numV     uint32
}

// New allocates rank/residual state for numV vertices with the given
// out-degrees (index-aligned with vertex id).
func New(numV uint32, outDeg []uint32) *PageRank {
	pr := &PageRank{
		rank:     make([]float64, numV),
		residual: make([]float64, numV),
		outDeg:   outDeg,
		numV:     numV,
	}
	base := (1 - Damping) / float64(numV)
	for v := range pr.rank {
		pr.rank[v] = base
		pr.residual[v] = base
	}
	return pr
}

// Ranks exposes the final per-vertex rank.
func (pr *PageRank) Ranks() []float64 { return pr.rank }

// SeedAll builds the initial frontier: every vertex propagates its share
// of its own base residual once, since every vertex starts holding
// uniform rank mass.
func (pr *PageRank) SeedAll() []engine.Item {
	items := make([]engine.Item, 0, pr.numV)
	for v := uint32(0); v < pr.numV; v++ {
		if pr.outDeg[v] == 0 {
			continue
		}
		share := utils.AtomicSwapFloat64(&pr.residual[v], 0)
		items = append(items, engine.Item{Vid: v, Val: Damping * share / float64(pr.outDeg[v])})
	}
	return items
}

// Filter drops a propagation item for a vertex with zero out-degree
// (there is nowhere to send the mass).
func (pr *PageRank) Filter(vid uint32, candidateVal float64) bool {
	return pr.outDeg[vid] == 0
}

// ApplyWeight passes the per-edge share through unchanged: the sender
// already divided by its own out-degree and applied damping in Push.
// edgeWeight is unused (PageRank is edge-weight-agnostic).
func (pr *PageRank) ApplyWeight(edgeWeight uint32, srcVal float64) float64 {
	return srcVal
}

// Touch warms dst's rank and residual slots ahead of Gather's real reads.
func (pr *PageRank) Touch(vid uint32) {
	_ = pr.rank[vid]
	_ = pr.residual[vid]
}

// Gather accumulates incoming mass into dst's rank and residual,
// atomically, returning true once the residual crosses the propagation
// threshold so this vertex re-enters the frontier.
func (pr *PageRank) Gather(dst uint32, destCandidateVal float64) bool {
	utils.AtomicAddFloat64(&pr.rank[dst], destCandidateVal)
	_, newU := utils.AtomicAddFloat64U(&pr.residual[dst], destCandidateVal)
	return math.Float64frombits(newU) >= Threshold
}

// Push atomically drains dst's residual and builds the frontier item
// carrying dst's damped, per-out-edge share of it.
func (pr *PageRank) Push(dst uint32, newVal float64) engine.Item {
	sent := utils.AtomicSwapFloat64(&pr.residual[dst], 0)
	return engine.Item{Vid: dst, Val: Damping * sent / float64(pr.outDeg[dst])}
}

// Index buckets everything into a single priority: rank propagation has
// no natural distance-like ordering to bucket on.
func (pr *PageRank) Index(item engine.Item) uint32 { return 0 }

var _ engine.Algorithm = (*PageRank)(nil)
