// Package partition decides how many samples each rank owns and, for the
// scatter strategy, materializes the per-rank slices from one global draw.
package partition

import (
	"fmt"
	"math/rand"

	"parmean/internal/stats"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", stats.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Split returns the per-rank sample counts for totalCount samples over
// workerCount ranks.
//
// Policy (deterministic, documented): integer division, with the remainder
// handed out one extra sample each to the lowest ranks. So for 10 samples and
// 4 ranks the counts are [3 3 2 2].
//
// Guarantees for all valid inputs:
//   - every entry >= 0
//   - entries sum exactly to totalCount
//   - max(entry) - min(entry) <= 1
func Split(totalCount, workerCount int) ([]int, error) {
	if workerCount <= 0 {
		return nil, invalidf("worker count must be positive, got %d", workerCount)
	}
	if totalCount < 0 {
		return nil, invalidf("total count must be non-negative, got %d", totalCount)
	}

	base := totalCount / workerCount
	rem := totalCount % workerCount
	counts := make([]int, workerCount)
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts, nil
}

// BuildSlices draws the full dataset from one stream and splits it
// contiguously according to counts. It returns both the global draw and the
// per-rank slices.
//
// Generation stays centralized so the combined dataset is reproducible from a
// single seed, even though processing is distributed. Slice i aliases the
// backing array; ownership of slice i transfers to rank i at scatter time and
// the coordinator keeps only its own.
func BuildSlices(rng *rand.Rand, dist stats.Distribution, mean float64, counts []int) ([]float64, [][]float64) {
	total := 0
	for _, c := range counts {
		total += c
	}
	all := stats.Draw(rng, dist, mean, total)
	return all, SliceByCounts(all, counts)
}

// SliceByCounts splits samples into contiguous slices of the given sizes.
// The counts must sum to len(samples).
func SliceByCounts(samples []float64, counts []int) [][]float64 {
	slices := make([][]float64, len(counts))
	off := 0
	for i, c := range counts {
		slices[i] = samples[off : off+c : off+c]
		off += c
	}
	return slices
}
