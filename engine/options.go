// Package engine implements the cooperative-task primitive (C5), the
// Scatter/Sync/Gather executor and round barrier with its distributed
// termination detector, the thread pool and topology model (C7), and the
// Run entry point that ties an algorithm's capability set to a
// PartitionedGraph and an OBIM work queue.
package engine

import (
	"runtime"

	"github.com/shayshani/corograph/enforce"
)

// RunOptions configures a Run call. Zero-valued fields take the defaults
// noted below; callers only need to override what they care about.
type RunOptions struct {
	Threads         int    // worker count; default runtime.NumCPU()
	StepShift       uint32 // Indexer quantum: Index = val >> StepShift
	LaneSize        int    // prefetch lane size; default 64
	QueueMultiplier int    // chunk queue capacity = QueueMultiplier * chunk capacity; default 4
	DebugLevel      int    // 0 quiet, higher values more verbose round logging

	// CountWork enables the optional, zero-cost-when-disabled work-item
	// counters (scatter/gather items processed, chunks recycled).
	CountWork bool
}

// Partition count is not a RunOptions field: obim.PartitionQueues must have
// exactly as many queues as the PartitionedGraph passed to Run has
// partitions (every GroupView.PartitionID it produces indexes straight into
// the executor's facing buffers), so Run always derives it from
// graph.PartitionedGraph.NumPart rather than letting a caller configure a
// mismatched value.

func (o *RunOptions) applyDefaults() {
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	if o.LaneSize <= 0 {
		o.LaneSize = 64
	}
	if o.QueueMultiplier <= 0 {
		o.QueueMultiplier = 4
	}
}

// validate fails fast on configuration the engine cannot run with at all;
// per the error-handling policy, a bad configuration is a panic at run()
// entry, not a returned error.
func (o *RunOptions) validate(numV uint32) {
	enforce.ENFORCE(o.Threads > 0, "RunOptions.Threads must be > 0")
	enforce.ENFORCE(numV > 0, "run() requires a non-empty graph")
}
