package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/shayshani/corograph/graph"
	"github.com/shayshani/corograph/utils"
)

// Result is what Run hands back once the executor reaches global
// quiescence: the algorithm's own state array is owned and exposed by the
// algorithm value passed in, so Result only carries engine-level
// bookkeeping. Work is a pointer since WorkCounters embeds atomic.Uint64
// fields that must never be copied after concurrent use.
type Result struct {
	Rounds int
	Work   *WorkCounters
}

// Run is the single entry point: run(graph, initialFrontier, algorithm,
// options). Indexing is folded into Algorithm.Index rather than passed
// separately, since every algorithm this engine ships needs its own
// indexing rule tied to its own value type.
func Run(pg *graph.PartitionedGraph, initialFrontier []Item, alg Algorithm, opts RunOptions) Result {
	opts.applyDefaults()
	opts.validate(pg.NumV())

	watch := utils.Watch{}
	watch.Start()

	ex := newExecutor(pg, alg, opts)
	ex.seed(initialFrontier)
	rounds := ex.run()

	log.Info().Msg("engine.Run converged in " + utils.V(rounds) + " rounds, " +
		watch.Elapsed().String())
	if opts.CountWork {
		log.Info().Msg("engine.Run work: " + ex.work.String())
	}

	return Result{Rounds: rounds, Work: ex.work}
}
