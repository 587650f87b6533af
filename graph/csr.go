package graph

// CSR is the upstream, already-built compressed-sparse-row graph this
// engine consumes. Graph ingestion is out of scope: callers build a CSR
// however they like (file parsing, generation, a converter) and hand it to
// Build.
type CSR struct {
	NumV uint32
	NumE uint32
	// Offset has length NumV+1; Offset[v]..Offset[v+1] indexes Edge for
	// vertex v's out-neighbors.
	Offset []uint32
	// Edge has length NumE: destination vertex ids.
	Edge []uint32
	// EdgeWeight has length NumE, or is nil for an unweighted graph (all
	// weights treated as 1).
	EdgeWeight []uint32
}

// Degree returns the out-degree of v.
func (c *CSR) Degree(v uint32) uint32 {
	return c.Offset[v+1] - c.Offset[v]
}

// WeightOf returns the weight of edge e (an index into Edge), or 1 if the
// CSR carries no weights.
func (c *CSR) WeightOf(e uint32) uint32 {
	if c.EdgeWeight == nil {
		return 1
	}
	return c.EdgeWeight[e]
}
