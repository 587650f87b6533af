package graph

import (
	"unsafe"

	"github.com/shayshani/corograph/enforce"
)

// peSlots is the number of 32-bit words in a record's inline PE array
// (14 × 32 bits = 56 bytes, per the invariant record size below).
const peSlots = 14

// record is the cache-line-exact per-vertex record: 2+2 bytes of group
// counts, 56 bytes of inline group data, 4 bytes of overflow offset.
type record struct {
	deg1   uint16
	deg2   uint16
	pe     [peSlots]uint32
	offset uint32
}

func init() {
	enforce.ENFORCE(unsafe.Sizeof(record{}) == 64, "PartitionedGraph record must be exactly 64 bytes")
}

// Edge is a materialized (destination, weight) pair, used both for
// highedge storage and as the unit callers see from GroupView.Edge.
type Edge struct {
	Dst    uint32
	Weight uint32
}

// Group encoding.
//
// Each group starts with a header word (PackGroupHeader) naming the
// destination partition and the edge count in that group, in ascending
// partition-id order. The words that follow the header depend on count:
//
//   - count == 1: one data word, PackEdge(dst, weight) — the single edge
//     packed inline.
//   - count == 2: two data words, PackEdge(dst0, weight0) then
//     PackEdge(dst1, weight1) — both edges packed inline. This engine
//     spends a third word on such groups rather than cramming two edges'
//     worth of destination and weight bits into one 32-bit word, which
//     preserves the full dst/weight precision of the 1-edge case at the
//     cost of one extra inline slot per 2-edge group.)
//   - count > 2: one data word, an index into PartitionedGraph.highedge
//     where count consecutive Edge entries for this group are stored.
//
// A group therefore occupies 2 words (count 1, or count > 2) or 3 words
// (count == 2). deg1/deg2 count groups, not words; the fill pass tracks a
// separate word cursor while packing PE/overflow.
func groupWords(count uint32) int {
	if count == 2 {
		return 3
	}
	return 2
}
