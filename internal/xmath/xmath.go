// Package xmath holds the small generic numeric helpers the engine needs
// that are not already covered by utils: bit-packing for the partitioned
// graph's 64-byte records, and ceil-division for partition sizing.
package xmath

import "golang.org/x/exp/constraints"

// CeilDiv computes ⌈a / b⌉ for positive integers, used to derive PartSize
// from numV and numPart.
func CeilDiv[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}

// PackGroupHeader packs a destination-partition id and its edge count into
// the first 32-bit slot of a PE group: partition id in the upper 18 bits,
// count in the lower 14 bits.
func PackGroupHeader(partitionID, count uint32) uint32 {
	return (partitionID << 14) | (count & 0x3FFF)
}

// UnpackGroupHeader is the inverse of PackGroupHeader.
func UnpackGroupHeader(header uint32) (partitionID, count uint32) {
	return header >> 14, header & 0x3FFF
}

// PackEdge packs a destination vertex id and an edge weight into a single
// 32-bit word for inline (count ≤ 2) groups: dst in the upper 14 bits,
// weight in the lower 18 bits. Weight is truncated to 18 bits (0..262143);
// callers with larger or fractional weights must use the highedge array.
func PackEdge(dst, weight uint32) uint32 {
	return (dst << 18) | (weight & 0x3FFFF)
}

// UnpackEdge is the inverse of PackEdge.
func UnpackEdge(word uint32) (dst, weight uint32) {
	return word >> 18, word & 0x3FFFF
}

// MaxInlineDst is the largest destination vertex id representable in the
// packed inline edge encoding (14 bits).
const MaxInlineDst = 1<<14 - 1

// MaxInlineWeight is the largest edge weight representable in the packed
// inline edge encoding (18 bits).
const MaxInlineWeight = 1<<18 - 1

// MaxPartitions is the largest partition id representable in a group
// header (18 bits).
const MaxPartitions = 1 << 18

// MaxGroupCount is the largest per-group edge count representable in a
// group header (14 bits) before the group must itself be considered
// oversized (still stored via highedge, just can't be reported exactly —
// callers should not produce groups this large).
const MaxGroupCount = 1<<14 - 1
