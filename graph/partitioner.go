package graph

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shayshani/corograph/enforce"
	"github.com/shayshani/corograph/internal/xmath"
	"github.com/shayshani/corograph/utils"
)

// Build runs the two-pass parallel partitioner (C2): it transforms csr into
// a PartitionedGraph with numPart partitions, built using up to threads
// goroutines. numPart == 0 selects the default, 4 × threads.
//
// Not measured by the caller's timing of Run: Build and Run are
// deliberately separable calls, so a caller can time the priority-pipeline
// portion of a workload alone.
func Build(csr *CSR, numPart uint32, threads int) *PartitionedGraph {
	enforce.ENFORCE(threads > 0, "Partitioner.Build requires threads > 0")
	if numPart == 0 {
		numPart = 4 * uint32(threads)
	}
	enforce.ENFORCE(numPart > 0, "Partitioner.Build requires numPart > 0")

	pg := &PartitionedGraph{
		csr:      csr,
		NumPart:  numPart,
		PartSize: xmath.CeilDiv(csr.NumV, numPart),
		vtx:      make([]record, csr.NumV),
	}
	if csr.NumV == 0 {
		return pg
	}
	enforce.ENFORCE(pg.PartSize*pg.NumPart >= csr.NumV, "PartSize*NumPart must cover numV")

	ranges := splitRange(csr.NumV, threads)

	// Pass 1: sizing. Each thread accumulates the overflow words and
	// highedge entries its vertex range will need.
	perThreadOverflow := make([]uint32, len(ranges))
	perThreadHighEdge := make([]uint32, len(ranges))
	var wg sync.WaitGroup
	for t, r := range ranges {
		wg.Add(1)
		go func(t int, r vertexRange) {
			defer wg.Done()
			var overflowWords, highEdgeCount uint32
			for v := r.start; v < r.end; v++ {
				groups := computeVertexGroups(csr, pg.PartSize, v)
				_, _, ofWords, heCount := splitInlineOverflow(groups)
				overflowWords += ofWords
				highEdgeCount += heCount
			}
			perThreadOverflow[t] = overflowWords
			perThreadHighEdge[t] = highEdgeCount
		}(t, r)
	}
	wg.Wait()

	overflowBase := make([]uint32, len(ranges))
	highEdgeBase := make([]uint32, len(ranges))
	var totalOverflow, totalHighEdge uint32
	for t := range ranges {
		overflowBase[t] = totalOverflow
		highEdgeBase[t] = totalHighEdge
		totalOverflow += perThreadOverflow[t]
		totalHighEdge += perThreadHighEdge[t]
	}
	pg.overflow = make([]uint32, totalOverflow)
	pg.highedge = make([]Edge, totalHighEdge)

	// Pass 2: fill. Same vertex ranges and same computeVertexGroups
	// determinism as pass 1, so each thread's reserved slices line up
	// exactly with what pass 1 sized for it.
	for t, r := range ranges {
		wg.Add(1)
		go func(t int, r vertexRange) {
			defer wg.Done()
			overflowCursor := overflowBase[t]
			highEdgeCursor := highEdgeBase[t]
			for v := r.start; v < r.end; v++ {
				groups := computeVertexGroups(csr, pg.PartSize, v)
				inline, overflowGroups, _, _ := splitInlineOverflow(groups)

				rec := &pg.vtx[v]
				rec.deg1 = uint16(len(inline))
				rec.deg2 = uint16(len(overflowGroups))

				cursor := 0
				for _, g := range inline {
					cursor = writeGroup(rec.pe[:], cursor, g, pg.highedge, &highEdgeCursor)
				}
				if len(overflowGroups) > 0 {
					rec.offset = overflowCursor
					words := pg.overflow[overflowCursor:]
					wc := 0
					for _, g := range overflowGroups {
						wc = writeGroup(words, wc, g, pg.highedge, &highEdgeCursor)
					}
					overflowCursor += uint32(wc)
				}
			}
		}(t, r)
	}
	wg.Wait()

	log.Debug().Msg("Partitioner.Build: " + utils.V(csr.NumV) + " vertices, " + utils.V(numPart) + " partitions")
	return pg
}

type vertexRange struct{ start, end uint32 }

func splitRange(numV uint32, threads int) []vertexRange {
	if uint32(threads) > numV {
		threads = int(numV)
	}
	if threads == 0 {
		threads = 1
	}
	chunk := xmath.CeilDiv(numV, uint32(threads))
	ranges := make([]vertexRange, 0, threads)
	for start := uint32(0); start < numV; start += chunk {
		end := start + chunk
		if end > numV {
			end = numV
		}
		ranges = append(ranges, vertexRange{start, end})
	}
	return ranges
}

type groupSpec struct {
	partitionID uint32
	edges       []Edge
}

// computeVertexGroups extracts v's out-edges from the CSR, sorted by
// destination and grouped into ascending-partition-id runs. Called
// identically in pass 1 (for sizing) and pass 2 (for fill), so its output
// must be deterministic given (csr, partSize, v).
func computeVertexGroups(csr *CSR, partSize uint32, v uint32) []groupSpec {
	start, end := csr.Offset[v], csr.Offset[v+1]
	deg := end - start
	if deg == 0 {
		return nil
	}
	edges := make([]Edge, deg)
	for i := start; i < end; i++ {
		edges[i-start] = Edge{Dst: csr.Edge[i], Weight: csr.WeightOf(i)}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Dst < edges[j].Dst })

	var groups []groupSpec
	i := 0
	for i < len(edges) {
		p := edges[i].Dst / partSize
		j := i
		for j < len(edges) && edges[j].Dst/partSize == p {
			j++
		}
		groups = append(groups, groupSpec{partitionID: p, edges: edges[i:j]})
		i = j
	}
	return groups
}

// splitInlineOverflow decides, in ascending-partition-id order, how many
// leading groups fit within the 14-word PE budget; the remainder spills to
// overflow. Also reports the overflow word count and the total highedge
// entry count across all groups (inline and overflow alike).
func splitInlineOverflow(groups []groupSpec) (inline, overflow []groupSpec, overflowWords, highEdgeCount uint32) {
	cursor := 0
	split := len(groups)
	for i, g := range groups {
		w := groupWords(uint32(len(g.edges)))
		if cursor+w > peSlots {
			split = i
			break
		}
		cursor += w
	}
	inline = groups[:split]
	overflow = groups[split:]
	for _, g := range overflow {
		overflowWords += uint32(groupWords(uint32(len(g.edges))))
	}
	for _, g := range groups {
		if len(g.edges) > 2 {
			highEdgeCount += uint32(len(g.edges))
		}
	}
	return
}

// writeGroup encodes one group at words[cursor:], appending to highedge
// (via *highEdgeCursor) when the group spills there, and returns the
// cursor after the words it wrote.
func writeGroup(words []uint32, cursor int, g groupSpec, highedge []Edge, highEdgeCursor *uint32) int {
	count := uint32(len(g.edges))
	words[cursor] = xmath.PackGroupHeader(g.partitionID, count)
	switch {
	case count == 1:
		words[cursor+1] = xmath.PackEdge(g.edges[0].Dst, g.edges[0].Weight)
		return cursor + 2
	case count == 2:
		words[cursor+1] = xmath.PackEdge(g.edges[0].Dst, g.edges[0].Weight)
		words[cursor+2] = xmath.PackEdge(g.edges[1].Dst, g.edges[1].Weight)
		return cursor + 3
	default:
		words[cursor+1] = *highEdgeCursor
		copy(highedge[*highEdgeCursor:], g.edges)
		*highEdgeCursor += count
		return cursor + 2
	}
}
