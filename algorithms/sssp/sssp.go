// Package sssp implements delta-stepping single-source shortest paths as
// an engine.Algorithm: distances are float64, converge monotonically
// downward from math.MaxFloat64 ("unreached"), and the priority index is
// distance right-shifted by the run's step shift, so bucket i holds
// tentative distances in [i*delta, (i+1)*delta).
package sssp

import (
	"math"

	"github.com/shayshani/corograph/engine"
	"github.com/shayshani/corograph/utils"
)

// MaxDistance is the "unreached" sentinel, used instead of math.Inf(1) so
// distances remain comparable via ordinary float64 equality in tests
// without special-casing infinities.
const MaxDistance = math.MaxFloat64

// SSSP holds one run's per-vertex distance state.
type SSSP struct {
	distance  []float64
	stepShift uint32
}

// New allocates distance state for numV vertices, all initialized to
// MaxDistance, using stepShift as the OBIM quantization exponent.
func New(numV uint32, stepShift uint32) *SSSP {
	s := &SSSP{distance: make([]float64, numV), stepShift: stepShift}
	for i := range s.distance {
		s.distance[i] = MaxDistance
	}
	return s
}

// Distances exposes the final per-vertex distance array, owned by the
// algorithm and ready for verification once Run returns.
func (s *SSSP) Distances() []float64 { return s.distance }

// Seed builds the initial frontier for a single source vertex at distance
// zero, setting its own state directly (no Gather round needed for it).
func (s *SSSP) Seed(source uint32) []engine.Item {
	s.distance[source] = 0
	return []engine.Item{{Vid: source, Val: 0}}
}

// Filter drops a scatter item whose candidate value is already stale
// relative to the vertex's current best-known distance — the item was
// queued for propagation before a better update to the same vertex landed.
func (s *SSSP) Filter(vid uint32, candidateVal float64) bool {
	return candidateVal > utils.AtomicLoadFloat64(&s.distance[vid])
}

// ApplyWeight adds the edge weight to the source's distance to produce the
// candidate distance offered to the destination.
func (s *SSSP) ApplyWeight(edgeWeight uint32, srcVal float64) float64 {
	return srcVal + float64(edgeWeight)
}

// Touch warms dst's distance slot ahead of Gather's real read, the
// destination-side prefetch companion to graph.PartitionedGraph.Touch.
func (s *SSSP) Touch(vid uint32) {
	_ = s.distance[vid]
}

// Gather relaxes dst's distance down to destCandidateVal if it improves,
// atomically; the monotone (non-increasing) atomic min is what makes
// convergence correct despite OBIM's weak ordering.
func (s *SSSP) Gather(dst uint32, destCandidateVal float64) bool {
	old := utils.AtomicMinFloat64(&s.distance[dst], destCandidateVal)
	return destCandidateVal < old
}

// Push builds the frontier item to propagate dst's improved distance.
func (s *SSSP) Push(dst uint32, newVal float64) engine.Item {
	return engine.Item{Vid: dst, Val: newVal}
}

// Index buckets an item by distance >> stepShift, the delta-stepping rule.
func (s *SSSP) Index(item engine.Item) uint32 {
	return uint32(item.Val) >> s.stepShift
}

var _ engine.Algorithm = (*SSSP)(nil)

// LongestFinitePath scans distance for the largest non-MaxDistance value,
// the "longest shortest path" figure a run logs at exit.
func LongestFinitePath(distance []float64) float64 {
	max := 0.0
	for _, d := range distance {
		if d != MaxDistance {
			max = utils.Max(max, d)
		}
	}
	return max
}
