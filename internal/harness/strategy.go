package harness

import (
	"strings"

	"parmean/internal/partition"
	"parmean/internal/rlog"
	"parmean/internal/stats"
	"parmean/internal/transport"
)

// Strategy decides how each rank comes to own its share of the work.
//
// Distribute runs on every rank and returns the samples that rank owns.
// Whatever the policy, the per-rank counts always follow partition.Split, so
// the conservation invariant (counts sum to TotalCount) holds under both.
type Strategy interface {
	Name() string
	Distribute(tr transport.Transport, ws WorkSpec) ([]float64, error)
}

// ScatterGather generates the whole dataset once on the root and scatters the
// per-rank slices. One global draw means the combined dataset is reproducible
// from the run seed alone, at the cost of moving raw samples over the
// substrate.
type ScatterGather struct {
	// KeepDataset makes the root retain the full draw from the most recent
	// Distribute, for reporting (sample dump, direct-mean verification).
	// Only ever populated on rank 0.
	KeepDataset bool
	Dataset     []float64
}

func (s *ScatterGather) Name() string { return "scatter" }

func (s *ScatterGather) Distribute(tr transport.Transport, ws WorkSpec) ([]float64, error) {
	if tr.Rank() != transport.Root {
		return tr.ScatterFloat64s(nil)
	}

	counts, err := partition.Split(ws.TotalCount, tr.Size())
	if err != nil {
		return nil, err
	}
	all, slices := partition.BuildSlices(stats.NewSource(ws.Seed), ws.Dist, ws.Mean, counts)
	if s.KeepDataset {
		s.Dataset = all
	}
	rlog.Debug(rlog.TopicScatter, tr.Rank(), "built %d samples across %d slices", len(all), len(slices))
	return tr.ScatterFloat64s(slices)
}

// GenerateLocally has every rank draw its own share from a private seeded
// stream. No raw samples cross the substrate, but only per-rank sequences are
// reproducible; the combined dataset composition depends on the worker count.
type GenerateLocally struct{}

func (GenerateLocally) Name() string { return "local" }

func (GenerateLocally) Distribute(tr transport.Transport, ws WorkSpec) ([]float64, error) {
	// Every rank derives its own count from the shared deterministic split;
	// no scatter is needed to tell it how much to generate.
	counts, err := partition.Split(ws.TotalCount, tr.Size())
	if err != nil {
		return nil, err
	}
	n := counts[tr.Rank()]
	rng := stats.NewSource(stats.RankSeed(ws.Seed, tr.Rank()))
	rlog.Debug(rlog.TopicWorker, tr.Rank(), "generating %d samples locally", n)
	return stats.Draw(rng, ws.Dist, ws.Mean, n), nil
}

// ParseStrategy maps the user-facing name to a fresh strategy value.
func ParseStrategy(raw string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "scatter":
		return &ScatterGather{}, nil
	case "local":
		return GenerateLocally{}, nil
	default:
		return nil, invalidf("unknown strategy %q (expected scatter|local)", raw)
	}
}
