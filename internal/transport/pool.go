package transport

import (
	"sync"

	"parmean/internal/rlog"
)

// Pool is the in-process substrate: a fixed set of ranks, each running as its
// own goroutine, joined by per-rank channels.
//
// Channel layout:
//   - scatterCh[i]: root -> rank i, carries rank i's scatter part.
//   - gatherCh[i]: rank i -> root, carries rank i's gather contribution.
//
// Both are buffered with capacity 1 so a worker's send completes as soon as
// the substrate holds the value, matching the gather contract (workers block
// only until their own send is accepted). Per-rank channels keep successive
// collectives FIFO without any sequence numbering.
type Pool struct {
	size      int
	scatterCh []chan []float64
	gatherCh  []chan []float64
	bar       *barrier

	// done poisons the pool on a fatal collective error so no rank blocks
	// forever waiting on a collective the root already abandoned.
	done     chan struct{}
	poisonMu sync.Once
}

// NewPool creates an in-process substrate with one endpoint per rank.
func NewPool(size int) (*Pool, error) {
	if size <= 0 {
		return nil, transportf("pool size must be positive, got %d", size)
	}
	p := &Pool{
		size:      size,
		scatterCh: make([]chan []float64, size),
		gatherCh:  make([]chan []float64, size),
		bar:       newBarrier(size),
		done:      make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.scatterCh[i] = make(chan []float64, 1)
		p.gatherCh[i] = make(chan []float64, 1)
	}
	return p, nil
}

// Size returns the fixed worker count.
func (p *Pool) Size() int { return p.size }

func (p *Pool) poison() {
	p.poisonMu.Do(func() { close(p.done) })
}

// Run executes fn once per rank, concurrently, and blocks until every rank
// returned. The returned error is the lowest-ranked failure, so the outcome
// is deterministic regardless of goroutine scheduling.
func (p *Pool) Run(fn func(t Transport) error) error {
	errs := make([]error, p.size)
	var wg sync.WaitGroup
	for rank := 0; rank < p.size; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			errs[rank] = fn(&poolEndpoint{pool: p, rank: rank})
		}(rank)
	}
	wg.Wait()

	for rank, err := range errs {
		if err != nil {
			rlog.Debug(rlog.TopicPool, rank, "rank failed: %v", err)
			return err
		}
	}
	return nil
}

// poolEndpoint is one rank's view of the pool.
type poolEndpoint struct {
	pool *Pool
	rank int
}

func (e *poolEndpoint) Rank() int { return e.rank }
func (e *poolEndpoint) Size() int { return e.pool.size }

func (e *poolEndpoint) ScatterFloat64s(parts [][]float64) ([]float64, error) {
	p := e.pool
	if e.rank == Root {
		if len(parts) != p.size {
			p.poison()
			return nil, transportf("scatter needs %d parts, got %d", p.size, len(parts))
		}
		for i := 0; i < p.size; i++ {
			if i == Root {
				continue
			}
			select {
			case p.scatterCh[i] <- parts[i]:
			case <-p.done:
				return nil, transportf("scatter aborted")
			}
		}
		rlog.Debug(rlog.TopicPool, e.rank, "scattered %d parts", p.size)
		return parts[Root], nil
	}

	select {
	case part := <-p.scatterCh[e.rank]:
		return part, nil
	case <-p.done:
		return nil, transportf("scatter aborted")
	}
}

func (e *poolEndpoint) GatherFloat64s(mine []float64) ([][]float64, error) {
	p := e.pool
	if e.rank != Root {
		select {
		case p.gatherCh[e.rank] <- mine:
			return nil, nil
		case <-p.done:
			return nil, transportf("gather aborted")
		}
	}

	// Root: collect every contribution, indexed by rank. No partial result is
	// visible before all of them arrived.
	all := make([][]float64, p.size)
	all[Root] = mine
	for i := 0; i < p.size; i++ {
		if i == Root {
			continue
		}
		select {
		case all[i] = <-p.gatherCh[i]:
		case <-p.done:
			return nil, transportf("gather aborted")
		}
	}
	rlog.Debug(rlog.TopicPool, e.rank, "gathered %d contributions", p.size)
	return all, nil
}

func (e *poolEndpoint) Barrier() {
	e.pool.bar.wait()
}

// barrier is a reusable generation barrier for a fixed party count.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	gen     int
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
