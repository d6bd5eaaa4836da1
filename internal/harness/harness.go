package harness

import (
	"fmt"

	"parmean/internal/rlog"
	"parmean/internal/stats"
	"parmean/internal/transport"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", stats.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// WorkSpec describes one run. Immutable once built; the same value is handed
// to every rank.
type WorkSpec struct {
	// TotalCount is the number of samples across the whole run.
	TotalCount int

	Dist stats.Distribution

	// Mean shifts Normal draws; ignored for Uniform.
	Mean float64

	// Seed is the run seed. ScatterGather draws the global dataset from it
	// directly; GenerateLocally derives per-rank seeds via stats.RankSeed.
	Seed int64
}

// Validate rejects malformed specs before any distribution happens.
// A zero TotalCount is allowed through here; it surfaces later as
// stats.ErrNoSamples, the computed-result error, not a startup failure.
func (ws WorkSpec) Validate() error {
	if ws.TotalCount < 0 {
		return invalidf("total count must be non-negative, got %d", ws.TotalCount)
	}
	switch ws.Dist {
	case stats.Uniform, stats.Normal:
	default:
		return invalidf("unknown distribution %d", ws.Dist)
	}
	return nil
}

// Run executes one rank's part of the run and returns the Final on rank 0.
// Every other rank returns (nil, nil) on success.
//
// Flow per rank: obtain samples via the strategy, reduce locally, contribute
// the partial to the gather, synchronize, and (root only) combine. The root
// participates as a worker like everyone else, so no CPU sits idle.
func Run(tr transport.Transport, ws WorkSpec, strat Strategy) (*stats.Final, error) {
	if strat == nil {
		return nil, invalidf("nil strategy")
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	samples, err := strat.Distribute(tr, ws)
	if err != nil {
		return nil, err
	}

	part := stats.Reduce(tr.Rank(), samples)
	rlog.Debug(rlog.TopicWorker, tr.Rank(), "reduced %d samples, sum=%g", part.Count, part.Sum)

	gathered, err := tr.GatherFloat64s(part.Encode())
	if err != nil {
		return nil, err
	}
	tr.Barrier()

	if tr.Rank() != transport.Root {
		return nil, nil
	}

	partials := make([]stats.Partial, len(gathered))
	for rank, wire := range gathered {
		p, err := stats.DecodePartial(rank, wire)
		if err != nil {
			return nil, err
		}
		partials[rank] = p
	}

	// Conservation check: a run must never report a result over a different
	// sample population than the one requested.
	var combined int64
	for _, p := range partials {
		combined += p.Count
	}
	if combined != int64(ws.TotalCount) {
		return nil, fmt.Errorf("gathered %d samples, expected %d", combined, ws.TotalCount)
	}

	final, err := stats.Combine(partials)
	if err != nil {
		return nil, err
	}
	rlog.Debug(rlog.TopicCoord, tr.Rank(), "combined %d partials: mean=%g variance=%g",
		len(partials), final.Mean, final.Variance)
	return &final, nil
}
