package graph

import (
	"testing"
	"unsafe"
)

func TestRecordSizeInvariant(t *testing.T) {
	if got := unsafe.Sizeof(record{}); got != 64 {
		t.Fatalf("record size = %d, want 64", got)
	}
}

func TestGroupsInlineHighEdgeAndDualInline(t *testing.T) {
	// v0 -> v1,v2,v3 (3 edges, count > 2, stored via highedge).
	// v1 -> v2,v3 (2 edges, count == 2, stored as two full inline words).
	// v2, v3 have no out-edges.
	csr := &CSR{
		NumV:       4,
		NumE:       5,
		Offset:     []uint32{0, 3, 5, 5, 5},
		Edge:       []uint32{1, 2, 3, 2, 3},
		EdgeWeight: []uint32{1, 2, 3, 10, 20},
	}

	pg := Build(csr, 1, 1)
	if pg.NumV() != 4 {
		t.Fatalf("NumV = %d, want 4", pg.NumV())
	}
	if pg.CSR() != csr {
		t.Fatalf("CSR() did not return the original csr pointer")
	}

	groups0 := pg.Groups(0)
	if len(groups0) != 1 {
		t.Fatalf("v0 groups = %d, want 1", len(groups0))
	}
	if groups0[0].Count != 3 {
		t.Fatalf("v0 group count = %d, want 3", groups0[0].Count)
	}
	wantEdges0 := []Edge{{Dst: 1, Weight: 1}, {Dst: 2, Weight: 2}, {Dst: 3, Weight: 3}}
	for i, want := range wantEdges0 {
		if got := groups0[0].Edge(i); got != want {
			t.Errorf("v0 edge %d = %+v, want %+v", i, got, want)
		}
	}

	groups1 := pg.Groups(1)
	if len(groups1) != 1 {
		t.Fatalf("v1 groups = %d, want 1", len(groups1))
	}
	if groups1[0].Count != 2 {
		t.Fatalf("v1 group count = %d, want 2", groups1[0].Count)
	}
	wantEdges1 := []Edge{{Dst: 2, Weight: 10}, {Dst: 3, Weight: 20}}
	for i, want := range wantEdges1 {
		if got := groups1[0].Edge(i); got != want {
			t.Errorf("v1 edge %d = %+v, want %+v", i, got, want)
		}
	}

	if len(pg.Groups(2)) != 0 || len(pg.Groups(3)) != 0 {
		t.Fatalf("leaf vertices should have no groups")
	}
}

func TestGroupsSpillToOverflow(t *testing.T) {
	// A single vertex fanning out to 8 distinct partitions (one edge each):
	// 7 groups fit inline (14 PE words), the 8th must spill to overflow.
	const numV = 16
	dsts := []uint32{1, 3, 5, 7, 9, 11, 13, 15}
	offset := make([]uint32, numV+1)
	for v := uint32(1); v <= numV; v++ {
		offset[v] = uint32(len(dsts))
	}
	edge := make([]uint32, len(dsts))
	weight := make([]uint32, len(dsts))
	copy(edge, dsts)
	for i := range weight {
		weight[i] = uint32(i + 1)
	}
	csr := &CSR{NumV: numV, NumE: uint32(len(dsts)), Offset: offset, Edge: edge, EdgeWeight: weight}

	pg := Build(csr, 8, 1)
	if pg.PartitionOf(0) != 0 || pg.PartitionOf(15) != 7 {
		t.Fatalf("unexpected partition assignment: PartitionOf(0)=%d PartitionOf(15)=%d", pg.PartitionOf(0), pg.PartitionOf(15))
	}

	groups := pg.Groups(0)
	if len(groups) != 8 {
		t.Fatalf("groups = %d, want 8", len(groups))
	}
	for i, g := range groups {
		if g.PartitionID != uint32(i) {
			t.Errorf("group %d has PartitionID %d, want %d", i, g.PartitionID, i)
		}
		if g.Count != 1 {
			t.Errorf("group %d has Count %d, want 1", i, g.Count)
		}
		want := Edge{Dst: dsts[i], Weight: uint32(i + 1)}
		if got := g.Edge(0); got != want {
			t.Errorf("group %d edge = %+v, want %+v", i, got, want)
		}
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	csr := &CSR{NumV: 0, NumE: 0, Offset: []uint32{0}}
	pg := Build(csr, 4, 2)
	if pg.NumV() != 0 {
		t.Fatalf("NumV = %d, want 0", pg.NumV())
	}
}

func TestCSRDegreeAndWeightOf(t *testing.T) {
	csr := &CSR{
		NumV:   2,
		NumE:   2,
		Offset: []uint32{0, 2, 2},
		Edge:   []uint32{1, 0},
	}
	if csr.Degree(0) != 2 {
		t.Fatalf("Degree(0) = %d, want 2", csr.Degree(0))
	}
	if csr.Degree(1) != 0 {
		t.Fatalf("Degree(1) = %d, want 0", csr.Degree(1))
	}
	if w := csr.WeightOf(0); w != 1 {
		t.Fatalf("WeightOf with nil EdgeWeight = %d, want 1", w)
	}
}

func TestTouchDoesNotPanic(t *testing.T) {
	csr := &CSR{NumV: 2, NumE: 0, Offset: []uint32{0, 0, 0}}
	pg := Build(csr, 1, 1)
	pg.Touch(0)
	pg.Touch(1)
}

// TestPartitionRoundTripPreservesTriples decodes every group of every
// vertex back into (src, dst, weight) triples and checks the result is
// the same multiset the CSR was built from, regardless of which group
// (inline, dual-inline, or overflow) each edge landed in.
func TestPartitionRoundTripPreservesTriples(t *testing.T) {
	csr := &CSR{
		NumV: 5,
		NumE: 9,
		// v0: 4 edges split across both partitions; v1: 2 edges, one
		// partition; v2: 1 edge; v3: 2 edges, one partition; v4: none.
		Offset:     []uint32{0, 4, 6, 7, 9, 9},
		Edge:       []uint32{0, 2, 3, 4, 3, 4, 0, 1, 2},
		EdgeWeight: []uint32{10, 20, 30, 40, 50, 60, 70, 80, 90},
	}

	type triple struct {
		src, dst, weight uint32
	}
	want := make(map[triple]int)
	for src := uint32(0); src < csr.NumV; src++ {
		for i := csr.Offset[src]; i < csr.Offset[src+1]; i++ {
			want[triple{src, csr.Edge[i], csr.EdgeWeight[i]}]++
		}
	}

	pg := Build(csr, 2, 1)
	got := make(map[triple]int)
	for v := uint32(0); v < pg.NumV(); v++ {
		pg.ForEachGroup(v, func(g GroupView) {
			for i := 0; i < int(g.Count); i++ {
				e := g.Edge(i)
				got[triple{v, e.Dst, e.Weight}]++
			}
		})
	}

	if len(got) != len(want) {
		t.Fatalf("decoded %d distinct triples, want %d", len(got), len(want))
	}
	for tr, count := range want {
		if got[tr] != count {
			t.Errorf("triple %+v seen %d times, want %d", tr, got[tr], count)
		}
	}
}
