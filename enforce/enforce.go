// Package enforce provides fail-fast invariant checks: a failed ENFORCE means
// the engine's own bookkeeping is inconsistent, not that user input was bad.
package enforce

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

// ENFORCE halts the program if query is not satisfied.
// Accepts a bool (must be true), an error (must be nil), or a string (an
// unconditional assertion-failure message).
func ENFORCE(query interface{}, args ...interface{}) {
	switch t := query.(type) {
	case bool:
		if !t {
			log.Panic().Msg(fmt.Sprint("ENFORCE: ", args))
		}
	case error:
		if t != nil {
			log.Panic().Err(t).Msg(fmt.Sprint("ENFORCE: ", args))
		}
	case string:
		log.Panic().Msg(fmt.Sprint("ENFORCE: ", t, args))
	case nil:
		// Allow nil to pass; lets callers write enforce.ENFORCE(err) directly.
	default:
		log.Panic().Msg(fmt.Sprintf("ENFORCE: incorrect usage of enforce with type: %T - %v - %v", t, t, args))
	}
}

// Fatal logs msg and args at panic level and panics. Nothing in this
// module calls it: run() entry checks go through ENFORCE.
func Fatal(msg string, args ...interface{}) {
	log.Panic().Msg(fmt.Sprint(msg, ": ", args))
}

// checkCompiler enforces a 64-bit machine: the partitioned graph's bit-packed
// record layout (partition id << 14 | count, dst << 18 | weight) assumes
// pointer-free 64-bit array index arithmetic.
func checkCompiler() {
	myint := int(math.MaxInt64)
	myint64 := int64(math.MaxInt64)
	ENFORCE(uint64(myint) == uint64(myint64), "Must be on 64 bit system.")
}
