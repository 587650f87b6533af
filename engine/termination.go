package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/shayshani/corograph/utils"
)

// TerminationDetector is the distributed quiescence check: each round
// every worker reports how many items it scattered and gathered; once
// every worker's view of the running totals agrees across two consecutive
// checks, and every worker independently saw zero pending local work at
// the time it reported, the round votes to terminate.
//
// This adapts a message-count agreement/vote-state machine to a
// push-pull engine with no message passing: agreement runs over
// scattered/gathered item counts instead of sent/received message
// counts, but the four-state vote convergence is the same shape.
type TerminationDetector struct {
	numThreads int
	activity   []int64 // per-thread cumulative (scattered + gathered), reported this round
	view       []int64 // per-thread's last-seen sum of all activity
	votes      []int   // per-thread vote state: 0 not ready, 1 wants to stop, 2 believes all want to stop, 3 confirmed
}

// NewTerminationDetector allocates detector state for numThreads workers.
func NewTerminationDetector(numThreads int) *TerminationDetector {
	return &TerminationDetector{
		numThreads: numThreads,
		activity:   make([]int64, numThreads),
		view:       make([]int64, numThreads),
		votes:      make([]int, numThreads),
	}
}

// Report records this thread's cumulative scattered+gathered item count
// for the round. Callers must call Report before the round barrier and
// Vote after it, so every thread's Vote call observes every other
// thread's freshly-reported activity.
func (d *TerminationDetector) Report(tidx int, scattered, gathered uint64) {
	d.activity[tidx] = int64(scattered) + int64(gathered)
}

// Vote reports whether the caller currently has zero pending local work
// and returns whether the round-wide vote has reached global quiescence.
// Must be called by every thread, every round, after the round barrier,
// until it returns true or work resumes.
func (d *TerminationDetector) Vote(tidx int, localWorkPending bool) bool {
	if localWorkPending {
		d.votes[tidx] = 0
		return false
	}

	allActivity := int64(0)
	for t := 0; t < d.numThreads; t++ {
		allActivity += d.activity[t]
	}

	if d.view[tidx] != allActivity {
		d.view[tidx] = allActivity
		d.votes[tidx] = 0
		return false
	}

	for t := 0; t < d.numThreads; t++ {
		if d.view[t] != allActivity {
			d.votes[tidx] = 0
			return false
		}
	}

	if d.votes[tidx] == 0 {
		d.votes[tidx] = 1
	}
	for t := 0; t < d.numThreads; t++ {
		if d.votes[t] == 0 {
			d.votes[tidx] = 1
			return false
		}
	}

	if d.votes[tidx] == 1 {
		d.votes[tidx] = 2
		return false
	}
	for t := 0; t < d.numThreads; t++ {
		if d.votes[t] < 2 {
			return false
		}
	}

	d.votes[tidx] = 3
	for t := 0; t < d.numThreads; t++ {
		if d.votes[t] != 3 {
			if d.votes[t] < 2 {
				log.Warn().Msg("termination: thread " + utils.V(tidx) + " observed thread " + utils.V(t) + " regress below vote stage 2")
			}
			return false
		}
	}
	return true
}
