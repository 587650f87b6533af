package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/shayshani/corograph/graph"
	"github.com/shayshani/corograph/obim"
	"github.com/shayshani/corograph/utils"
	"github.com/shayshani/corograph/worklist"
)

// executor drives the per-thread Scatter/Sync/Gather loop across a
// ThreadPool until the TerminationDetector reports global quiescence.
type executor struct {
	pg    *graph.PartitionedGraph
	alg   Algorithm
	obim  *obim.OBIM[Item]
	pool  *ThreadPool
	term  *TerminationDetector
	opts  RunOptions
	uPool *worklist.ChunkPool[Item]
	work  *WorkCounters
}

func newExecutor(pg *graph.PartitionedGraph, alg Algorithm, opts RunOptions) *executor {
	pool := NewThreadPool(opts.Threads)
	socketOf := make([]int, opts.Threads)
	for t := range socketOf {
		socketOf[t] = pool.SocketOf(t)
	}
	queueCap := uint64(opts.QueueMultiplier * worklist.UpdateChunkCap)
	gatherQCap := uint64(opts.QueueMultiplier * opts.Threads)
	o := obim.New[Item](opts.Threads, pg.NumPart, socketOf,
		worklist.FrontierChunkCap, worklist.UpdateChunkCap, queueCap, gatherQCap)

	return &executor{
		pg:    pg,
		alg:   alg,
		obim:  o,
		pool:  pool,
		term:  NewTerminationDetector(opts.Threads),
		opts:  opts,
		uPool: obim.UpdatePool[Item](worklist.UpdateChunkCap),
		work:  &WorkCounters{},
	}
}

// seed enqueues the initial frontier before Run starts the worker pool.
// thread 0 owns the seeding, a single-threaded setup phase before the
// worker pool fans out.
func (e *executor) seed(initial []Item) {
	for _, item := range initial {
		idx := e.alg.Index(item)
		e.obim.Priority.Push(item, idx, 0)
	}
	e.obim.Priority.Flush(0)
}

// run executes rounds until global quiescence, returning the round count.
func (e *executor) run() int {
	rounds := make([]int, e.opts.Threads)
	votes := make([]bool, e.opts.Threads)
	e.pool.OnEach(func(tidx, total int) {
		rounds[tidx] = e.runThread(tidx, votes)
	})
	max := 0
	for _, r := range rounds {
		if r > max {
			max = r
		}
	}
	return max
}

// runThread runs one worker's rounds. votes is shared by all workers: each
// writes its own Vote result between the two round barriers, and every
// worker stops only when all of them voted done, so all workers leave the
// loop in the same round.
func (e *executor) runThread(tidx int, votes []bool) int {
	facing := make([]*worklist.Bag[Item], e.pg.NumPart)
	for p := range facing {
		facing[p] = worklist.NewBag[Item](e.uPool)
	}
	lane := make([]uint32, 0, e.opts.LaneSize)
	var dirty utils.Bitmap
	dirty.Grow(e.pg.NumPart)

	var scatteredTotal, gatheredTotal uint64
	round := 0
	for {
		round++
		scatteredThisRound := e.scatter(tidx, facing, lane[:0], &dirty)
		e.sync(tidx, facing, &dirty)
		gatheredThisRound := e.gather(tidx)
		e.obim.Priority.Flush(tidx)

		scatteredTotal += scatteredThisRound
		gatheredTotal += gatheredThisRound
		localPending := scatteredThisRound > 0 || gatheredThisRound > 0

		e.term.Report(tidx, scatteredTotal, gatheredTotal)
		e.pool.Barrier().Wait()
		votes[tidx] = e.term.Vote(tidx, localPending)
		e.pool.Barrier().Wait()
		done := true
		for _, v := range votes {
			done = done && v
		}

		if e.opts.DebugLevel > 0 && e.pool.IsSocketLeader(tidx) {
			log.Debug().Msg("round " + utils.V(round) + " thread " + utils.V(tidx) +
				" scattered=" + utils.V(scatteredThisRound) + " gathered=" + utils.V(gatheredThisRound))
		}
		if done {
			return round
		}
	}
}

// scatter drains OBIM's priority side for this thread, running each item
// through the algorithm's Filter/ApplyWeight and appending update items
// into the per-partition facing buffers. dirty tracks which partitions this
// thread has touched this round, so sync doesn't have to sweep every
// partition (NumPart can run well into the thousands while a single round's
// fan-out only ever touches a handful of them). Each chunk is walked one
// lane (opts.LaneSize items) at a time through a Task: the prefetch step
// warms every vertex record in the lane before the process step decodes
// their groups for real.
func (e *executor) scatter(tidx int, facing []*worklist.Bag[Item], lane []uint32, dirty *utils.Bitmap) uint64 {
	var count uint64
	laneItems := make([]Item, 0, e.opts.LaneSize)
	task := NewTask(func(l []Item) {
		lane = lane[:0]
		for _, item := range l {
			lane = append(lane, item.Vid)
		}
		TouchRecords(e.pg.Touch, lane)
	}, func(l []Item) bool {
		for _, item := range l {
			if e.alg.Filter(item.Vid, item.Val) {
				continue
			}
			e.pg.ForEachGroup(item.Vid, func(g graph.GroupView) {
				for i := 0; i < int(g.Count); i++ {
					edge := g.Edge(i)
					candidate := e.alg.ApplyWeight(edge.Weight, item.Val)
					facing[g.PartitionID].Add(Item{Vid: edge.Dst, Val: candidate})
					dirty.Set(g.PartitionID)
				}
			})
			count++
			if e.opts.CountWork {
				e.work.ScatterItems.Add(1)
			}
		}
		return true
	})

	for {
		chunk, ok := e.obim.Priority.Pop(tidx)
		if !ok {
			return count
		}
		for i := 0; i < chunk.Pushed(); {
			laneItems = laneItems[:0]
			for len(laneItems) < cap(laneItems) && i < chunk.Pushed() {
				laneItems = append(laneItems, chunk.At(i))
				i++
			}
			task.Step(laneItems)
		}
		dirty.ForEachSet(func(p uint32) {
			for _, c := range facing[p].TakeDone() {
				e.obim.Partitions.Scatter(p, c, tidx)
				if e.opts.CountWork {
					e.work.ChunksAllocated.Add(1)
				}
			}
		})
	}
}

// sync flushes every facing buffer this round touched so no update item is
// left stranded before Gather runs, then clears dirty for the next round.
func (e *executor) sync(tidx int, facing []*worklist.Bag[Item], dirty *utils.Bitmap) {
	dirty.ForEachSet(func(p uint32) {
		if c := facing[p].TakeCurrent(); c != nil {
			e.obim.Partitions.Scatter(p, c, tidx)
		}
	})
	dirty.Zeroes()
}

// gather drains this thread's (and, via stealing, other threads') partition
// queues, applying the algorithm's Gather step and re-seeding OBIM's
// priority side with whatever changed. Each drained chunk is walked one
// lane (opts.LaneSize items) at a time through a Task: the prefetch step
// warms every destination vertex's algorithm state before the process step
// applies Gather/Push for real, the destination-side counterpart to
// scatter's per-lane record prefetch.
func (e *executor) gather(tidx int) uint64 {
	var count uint64
	lane := make([]Item, 0, e.opts.LaneSize)
	task := NewTask(func(l []Item) {
		for _, item := range l {
			e.alg.Touch(item.Vid)
		}
	}, func(l []Item) bool {
		for _, item := range l {
			if e.alg.Gather(item.Vid, item.Val) {
				count++
				newItem := e.alg.Push(item.Vid, item.Val)
				idx := e.alg.Index(newItem)
				e.obim.Priority.Push(newItem, idx, tidx)
				if e.opts.CountWork {
					e.work.GatherItems.Add(1)
				}
			}
		}
		return true
	})

	for {
		chunk, _, ok := e.obim.Partitions.PopPartition(tidx)
		if !ok {
			return count
		}
		for {
			lane = lane[:0]
			for len(lane) < cap(lane) {
				item, ok := chunk.Pop()
				if !ok {
					break
				}
				lane = append(lane, item)
			}
			if len(lane) == 0 {
				break
			}
			task.Step(lane)
		}
		e.uPool.Put(chunk)
		if e.opts.CountWork {
			e.work.ChunksRecycled.Add(1)
		}
	}
}
