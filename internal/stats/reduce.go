package stats

// Partial is one rank's local aggregate. It is produced exactly once per rank
// and then owned by the coordinator after the gather; nothing mutates it.
type Partial struct {
	// Rank is the producing rank; informational once gathered, since gather
	// order already carries rank identity.
	Rank int

	Count      int64
	Sum        float64
	SumSquares float64
}

// Final is the combined statistic. It exists only on rank 0.
type Final struct {
	Count    int64
	Mean     float64
	Variance float64
}

// Reduce computes the local aggregate over samples.
//
// An empty input is a valid, weightless contribution (count 0, sums 0), never
// an error: the coordinator must be able to absorb ranks that received no work.
func Reduce(rank int, samples []float64) Partial {
	p := Partial{Rank: rank}
	for _, v := range samples {
		p.Count++
		p.Sum += v
		p.SumSquares += v * v
	}
	return p
}

// partialWireLen is the fixed float64 vector length a Partial occupies on the
// transport (count, sum, sum of squares). Rank is implied by gather position.
const partialWireLen = 3

// Encode flattens a Partial into the transport's float64 wire form.
func (p Partial) Encode() []float64 {
	return []float64{float64(p.Count), p.Sum, p.SumSquares}
}

// DecodePartial rebuilds a Partial gathered from the given rank.
func DecodePartial(rank int, wire []float64) (Partial, error) {
	if len(wire) != partialWireLen {
		return Partial{}, invalidf("partial from rank %d has wire length %d, want %d", rank, len(wire), partialWireLen)
	}
	return Partial{
		Rank:       rank,
		Count:      int64(wire[0]),
		Sum:        wire[1],
		SumSquares: wire[2],
	}, nil
}

// Combine folds the complete set of partials into the final statistic.
//
// Partials are summed in slice order; callers pass them in rank order so the
// result is the same across identical runs. Note the grouping differs from a
// direct left-to-right pass over the full dataset, so multi-rank results agree
// with a direct pass only up to float rounding.
//
// Returns ErrNoSamples when the combined count is zero: the mean is undefined
// and no result may be reported.
func Combine(partials []Partial) (Final, error) {
	var count int64
	var sum, sumSq float64
	for _, p := range partials {
		count += p.Count
		sum += p.Sum
		sumSq += p.SumSquares
	}
	if count == 0 {
		return Final{}, ErrNoSamples
	}
	mean := sum / float64(count)
	return Final{
		Count:    count,
		Mean:     mean,
		Variance: sumSq/float64(count) - mean*mean,
	}, nil
}
