package graph

import "github.com/shayshani/corograph/internal/xmath"

// PartitionedGraph is the cache-line-exact representation C1: for every
// vertex, its out-edges grouped by destination partition, in ascending
// partition-id order. Built once by Build, read-only during
// execution.
type PartitionedGraph struct {
	csr      *CSR
	NumPart  uint32
	PartSize uint32
	vtx      []record
	overflow []uint32
	highedge []Edge
}

// NumV is the vertex count of the underlying CSR.
func (pg *PartitionedGraph) NumV() uint32 { return pg.csr.NumV }

// CSR returns the original CSR this graph was built from, retained for
// algorithms that do not use the priority pipeline.
func (pg *PartitionedGraph) CSR() *CSR { return pg.csr }

// PartitionOf returns the partition owning vertex v, in O(1).
func (pg *PartitionedGraph) PartitionOf(v uint32) uint32 {
	return v / pg.PartSize
}

// Touch reads v's record header without decoding it, warming the
// record's cache line ahead of a later ForEachGroup call. This is Go's
// stand-in for a software-prefetch instruction (engine.Task's Prefetch
// step calls this across a lane of vertex ids).
func (pg *PartitionedGraph) Touch(v uint32) {
	_ = pg.vtx[v].deg1
}

// GroupView is one destination-partition group of a vertex's out-edges,
// as materialized by ForEachGroup. Edge(i) decodes the i'th edge in the
// group without allocating.
type GroupView struct {
	PartitionID uint32
	Count       uint32
	inline      [2]uint32
	highedge    []Edge
}

// Edge decodes the i'th edge (0 <= i < Count) of the group.
func (g GroupView) Edge(i int) Edge {
	if g.Count > 2 {
		return g.highedge[i]
	}
	dst, w := xmath.UnpackEdge(g.inline[i])
	return Edge{Dst: dst, Weight: w}
}

// ForEachGroup walks v's destination-partition groups in ascending
// partition-id order, decoding each without allocating beyond the
// GroupView passed to fn.
func (pg *PartitionedGraph) ForEachGroup(v uint32, fn func(GroupView)) {
	rec := &pg.vtx[v]
	words := rec.pe[:]
	cursor := 0
	for g := uint16(0); g < rec.deg1; g++ {
		cursor = pg.decodeGroupAt(words, cursor, fn)
	}
	if rec.deg2 == 0 {
		return
	}
	words = pg.overflow[rec.offset:]
	cursor = 0
	for g := uint16(0); g < rec.deg2; g++ {
		cursor = pg.decodeGroupAt(words, cursor, fn)
	}
}

func (pg *PartitionedGraph) decodeGroupAt(words []uint32, cursor int, fn func(GroupView)) int {
	header := words[cursor]
	partitionID, count := xmath.UnpackGroupHeader(header)
	view := GroupView{PartitionID: partitionID, Count: count}
	switch {
	case count == 1:
		view.inline[0] = words[cursor+1]
	case count == 2:
		view.inline[0] = words[cursor+1]
		view.inline[1] = words[cursor+2]
	default:
		off := words[cursor+1]
		view.highedge = pg.highedge[off : off+count]
	}
	fn(view)
	return cursor + groupWords(count)
}

// Groups materializes v's groups into a slice; a convenience for tests
// and for algorithms that don't need zero-allocation iteration.
func (pg *PartitionedGraph) Groups(v uint32) []GroupView {
	var out []GroupView
	pg.ForEachGroup(v, func(g GroupView) { out = append(out, g) })
	return out
}
