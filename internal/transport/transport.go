package transport

import (
	"errors"
	"fmt"
)

// Root is the rank that owns scatter sources and gather destinations.
// The coordinator always runs there and also participates as a worker.
const Root = 0

// ErrTransport marks a substrate failure (unreachable rank, bad collective
// shape). Fatal and unrecoverable: callers must abort the run, never retry.
var ErrTransport = errors.New("transport failure")

func transportf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

// Transport is one rank's endpoint into the substrate.
//
// Collective semantics (all synchronous):
//   - ScatterFloat64s blocks the root until every per-rank part is handed
//     off, and blocks every other rank until its own part arrives. Only the
//     root passes parts (len == Size(), indexed by rank); everyone receives
//     exactly its own part back.
//   - GatherFloat64s blocks the root until all Size() contributions arrived,
//     and blocks every other rank only until its own send completes. The
//     root receives the contributions indexed by rank; other ranks get nil.
//   - Barrier blocks until every rank reached it.
//
// A Transport value is owned by exactly one rank; it is not safe to share.
type Transport interface {
	Rank() int
	Size() int

	ScatterFloat64s(parts [][]float64) ([]float64, error)
	GatherFloat64s(mine []float64) ([][]float64, error)
	Barrier()
}
