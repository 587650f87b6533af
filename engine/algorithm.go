package engine

// Item is the single shape shared by both OBIM roles: as a frontier item it
// names the vertex whose outgoing edges Scatter should process; as an
// update item it names the destination vertex and the candidate value
// Gather should try to apply. Val carries a float64 for every algorithm
// this engine ships (SSSP distance, PageRank rank, CC's min-id label
// re-expressed as a float64 — safe up to 2^53 vertex ids, far past any
// graph this engine partitions into a uint32 vertex space).
type Item struct {
	Vid uint32
	Val float64
}

// Algorithm is the capability set the executor drives every round: it
// never inspects per-vertex state itself, only calls through these six
// functions. Implementations own their state array and are responsible
// for making Gather's mutation atomic and monotone, since that monotonicity
// is what makes convergence correct under OBIM's weak ordering.
type Algorithm interface {
	// Filter reports whether a candidate value for vid is already stale
	// and should be dropped without Scatter ever touching it.
	Filter(vid uint32, candidateVal float64) bool

	// ApplyWeight turns an edge weight and the source vertex's current
	// value into the candidate value proposed for the destination.
	ApplyWeight(edgeWeight uint32, srcVal float64) (destCandidateVal float64)

	// Touch warms vid's algorithm state without applying any update, the
	// destination-side prefetch companion to graph.PartitionedGraph.Touch.
	// Gather's lane loop calls this across a lane of destination ids before
	// the real Gather/Push calls decode and mutate that state.
	Touch(vid uint32)

	// Gather applies destCandidateVal to dst's state if it improves it,
	// atomically, and reports whether the state changed.
	Gather(dst uint32, destCandidateVal float64) (changed bool)

	// Push builds the frontier item to enqueue for dst now that its state
	// has changed to newVal.
	Push(dst uint32, newVal float64) Item

	// Index maps an item to its OBIM priority bucket.
	Index(item Item) uint32
}
