package sssp

import (
	"testing"

	"github.com/shayshani/corograph/engine"
	"github.com/shayshani/corograph/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// TestSSSPMatchesGonumDijkstra cross-checks the engine's delta-stepping
// result against gonum's textbook Dijkstra on the same weighted digraph.
func TestSSSPMatchesGonumDijkstra(t *testing.T) {
	type edge struct {
		src, dst uint32
		weight   uint32
	}
	edges := []edge{
		{0, 1, 4},
		{0, 2, 1},
		{1, 3, 1},
		{1, 4, 10},
		{2, 1, 1},
		{2, 3, 5},
		{3, 4, 3},
		{3, 5, 9},
		{4, 5, 2},
	}
	const numV = 6

	// Build the CSR grouped by src (edges above are already listed in
	// non-decreasing src order).
	offset := make([]uint32, numV+1)
	var edgeDst, edgeWeight []uint32
	for src := uint32(0); src < numV; src++ {
		offset[src] = uint32(len(edgeDst))
		for _, e := range edges {
			if e.src == src {
				edgeDst = append(edgeDst, e.dst)
				edgeWeight = append(edgeWeight, e.weight)
			}
		}
	}
	offset[numV] = uint32(len(edgeDst))

	csr := &graph.CSR{
		NumV:       numV,
		NumE:       uint32(len(edgeDst)),
		Offset:     offset,
		Edge:       edgeDst,
		EdgeWeight: edgeWeight,
	}
	pg := graph.Build(csr, 0, 1)

	alg := New(numV, 2)
	frontier := alg.Seed(0)
	engine.Run(pg, frontier, alg, engine.RunOptions{Threads: 1})
	got := alg.Distances()

	// Build the same graph in gonum and run its Dijkstra as the oracle.
	g := simple.NewWeightedDirectedGraph(0, 0)
	nodes := make(map[int64]simple.Node)
	for i := 0; i < numV; i++ {
		n := simple.Node(int64(i))
		g.AddNode(n)
		nodes[int64(i)] = n
	}
	for _, e := range edges {
		g.SetWeightedEdge(simple.WeightedEdge{
			F: nodes[int64(e.src)],
			T: nodes[int64(e.dst)],
			W: float64(e.weight),
		})
	}
	shortest := path.DijkstraFrom(nodes[0], g)

	for v := 0; v < numV; v++ {
		want := shortest.WeightTo(int64(v))
		if got[v] != want {
			t.Errorf("distance[%d] = %v, want %v (gonum oracle)", v, got[v], want)
		}
	}

	// Hand-computed cross-check for the fixed graph above: 0->2->1->3->4->5.
	wantHand := []float64{0, 2, 1, 3, 6, 8}
	for v, w := range wantHand {
		if got[v] != w {
			t.Errorf("distance[%d] = %v, want %v (hand-traced)", v, got[v], w)
		}
	}
}
