package engine

import (
	"sync/atomic"

	"github.com/shayshani/corograph/utils"
)

// WorkCounters is the optional, zero-cost-when-disabled item-counting
// facility (RunOptions.CountWork): a COUNT_WORK-macro equivalent that the
// executor updates only when counting is enabled, so a normal run pays
// nothing beyond the branch guarding each increment.
type WorkCounters struct {
	ScatterItems    atomic.Uint64
	GatherItems     atomic.Uint64
	ChunksAllocated atomic.Uint64
	ChunksRecycled  atomic.Uint64
}

// String renders the counters as a single status line (utils.V wraps
// each field), suitable for a single log line at run end.
func (c *WorkCounters) String() string {
	return "scatter=" + utils.V(c.ScatterItems.Load()) +
		" gather=" + utils.V(c.GatherItems.Load()) +
		" chunksAllocated=" + utils.V(c.ChunksAllocated.Load()) +
		" chunksRecycled=" + utils.V(c.ChunksRecycled.Load())
}
