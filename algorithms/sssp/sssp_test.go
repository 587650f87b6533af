package sssp

import (
	"testing"

	"github.com/shayshani/corograph/engine"
	"github.com/shayshani/corograph/graph"
)

// buildDiamond builds:
//
//	0 -1-> 1 -1-> 2 -1-> 3
//	0 -4-> 2
//	1 -5-> 3
//
// so the shortest path to 3 is 0->1->2->3 (cost 3), not the direct 0->2->? or
// 1->3 edge (cost 1+5=6).
func buildDiamond() *graph.PartitionedGraph {
	csr := &graph.CSR{
		NumV:       4,
		NumE:       5,
		Offset:     []uint32{0, 2, 4, 5, 5},
		Edge:       []uint32{1, 2, 2, 3, 3},
		EdgeWeight: []uint32{1, 4, 1, 5, 1},
	}
	return graph.Build(csr, 0, 1)
}

func TestSSSPShortestPaths(t *testing.T) {
	pg := buildDiamond()
	alg := New(pg.NumV(), 2)
	frontier := alg.Seed(0)

	result := engine.Run(pg, frontier, alg, engine.RunOptions{Threads: 1})
	if result.Rounds == 0 {
		t.Fatalf("Run reported 0 rounds")
	}

	want := []float64{0, 1, 2, 3}
	got := alg.Distances()
	for v, w := range want {
		if got[v] != w {
			t.Errorf("distance[%d] = %v, want %v", v, got[v], w)
		}
	}

	if lp := LongestFinitePath(got); lp != 3 {
		t.Errorf("LongestFinitePath = %v, want 3", lp)
	}
}

func TestSSSPUnreachableVertexStaysAtMaxDistance(t *testing.T) {
	// vertex 3 has no incoming edges from the reachable set.
	csr := &graph.CSR{
		NumV:   4,
		NumE:   1,
		Offset: []uint32{0, 1, 1, 1, 1},
		Edge:   []uint32{1},
	}
	pg := graph.Build(csr, 0, 1)
	alg := New(pg.NumV(), 2)
	frontier := alg.Seed(0)

	engine.Run(pg, frontier, alg, engine.RunOptions{Threads: 1})

	got := alg.Distances()
	if got[3] != MaxDistance {
		t.Errorf("distance[3] = %v, want MaxDistance (unreachable)", got[3])
	}
	if got[1] != 1 {
		t.Errorf("distance[1] = %v, want 1", got[1])
	}
}

func TestSSSPFilterDropsStaleCandidates(t *testing.T) {
	s := New(2, 0)
	s.distance[1] = 5
	if !s.Filter(1, 10) {
		t.Errorf("Filter(1, 10) = false, want true (10 > current best 5)")
	}
	if s.Filter(1, 3) {
		t.Errorf("Filter(1, 3) = true, want false (3 improves on 5)")
	}
}

func TestSSSPIdempotentAcrossRuns(t *testing.T) {
	pg := buildDiamond()

	alg1 := New(pg.NumV(), 2)
	engine.Run(pg, alg1.Seed(0), alg1, engine.RunOptions{Threads: 1})

	alg2 := New(pg.NumV(), 2)
	engine.Run(pg, alg2.Seed(0), alg2, engine.RunOptions{Threads: 1})

	got1, got2 := alg1.Distances(), alg2.Distances()
	for v := range got1 {
		if got1[v] != got2[v] {
			t.Errorf("distance[%d] = %v on first run, %v on second run", v, got1[v], got2[v])
		}
	}
}

func TestSSSPSingletonGraphCompletesWithNoWork(t *testing.T) {
	csr := &graph.CSR{NumV: 1, NumE: 0, Offset: []uint32{0, 0}}
	pg := graph.Build(csr, 1, 1)
	alg := New(pg.NumV(), 2)

	result := engine.Run(pg, alg.Seed(0), alg, engine.RunOptions{Threads: 1, CountWork: true})
	if result.Rounds == 0 {
		t.Fatalf("Run reported 0 rounds")
	}
	if got := result.Work.ScatterItems.Load(); got > 1 {
		t.Errorf("ScatterItems = %d, want at most 1 (the seed vertex has no out-edges)", got)
	}
	if got := alg.Distances()[0]; got != 0 {
		t.Errorf("distance[0] = %v, want 0", got)
	}
}

func TestSSSPFiveVertexCycle(t *testing.T) {
	// 0<->1<->2<->3<->4<->0, all weight 1: distances from 0 are [0,1,2,2,1].
	const n = 5
	var offset [n + 1]uint32
	var edge, weight []uint32
	for v := uint32(0); v < n; v++ {
		offset[v] = uint32(len(edge))
		edge = append(edge, (v+1)%n, (v+n-1)%n)
		weight = append(weight, 1, 1)
	}
	offset[n] = uint32(len(edge))

	csr := &graph.CSR{NumV: n, NumE: uint32(len(edge)), Offset: offset[:], Edge: edge, EdgeWeight: weight}
	pg := graph.Build(csr, 0, 1)
	alg := New(pg.NumV(), 1)

	engine.Run(pg, alg.Seed(0), alg, engine.RunOptions{Threads: 1})

	want := []float64{0, 1, 2, 2, 1}
	got := alg.Distances()
	for v, w := range want {
		if got[v] != w {
			t.Errorf("distance[%d] = %v, want %v", v, got[v], w)
		}
	}
}

func TestSSSPMultiThreadedMatchesSingleThreaded(t *testing.T) {
	pg := buildDiamond()
	alg := New(pg.NumV(), 2)
	frontier := alg.Seed(0)

	engine.Run(pg, frontier, alg, engine.RunOptions{Threads: 4})

	want := []float64{0, 1, 2, 3}
	got := alg.Distances()
	for v, w := range want {
		if got[v] != w {
			t.Errorf("distance[%d] = %v, want %v", v, got[v], w)
		}
	}
}
