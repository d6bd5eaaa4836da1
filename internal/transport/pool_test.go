package transport

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewPool_RejectsNonPositiveSize(t *testing.T) {
	if _, err := NewPool(0); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestPool_ScatterDeliversEachRankItsOwnPart(t *testing.T) {
	const size = 4
	pool, err := NewPool(size)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var mu sync.Mutex
	received := make([][]float64, size)

	err = pool.Run(func(tr Transport) error {
		var parts [][]float64
		if tr.Rank() == Root {
			parts = [][]float64{{0}, {1, 1}, {2, 2, 2}, {3}}
		}
		mine, err := tr.ScatterFloat64s(parts)
		if err != nil {
			return err
		}
		mu.Lock()
		received[tr.Rank()] = mine
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("pool run failed: %v", err)
	}

	for rank, vals := range received {
		if len(vals) == 0 || vals[0] != float64(rank) {
			t.Fatalf("rank %d received wrong part: %v", rank, vals)
		}
	}
	if len(received[2]) != 3 {
		t.Fatalf("rank 2 part length: got %d want 3", len(received[2]))
	}
}

func TestPool_GatherIndexesContributionsByRank(t *testing.T) {
	const size = 5
	pool, err := NewPool(size)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rootView [][]float64
	err = pool.Run(func(tr Transport) error {
		all, err := tr.GatherFloat64s([]float64{float64(tr.Rank() * 10)})
		if err != nil {
			return err
		}
		if tr.Rank() == Root {
			rootView = all
		} else if all != nil {
			return fmt.Errorf("rank %d saw a gather result", tr.Rank())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("pool run failed: %v", err)
	}

	if len(rootView) != size {
		t.Fatalf("root gathered %d contributions, want %d", len(rootView), size)
	}
	for rank, vals := range rootView {
		if len(vals) != 1 || vals[0] != float64(rank*10) {
			t.Fatalf("contribution for rank %d mismatched: %v", rank, vals)
		}
	}
}

func TestPool_ScatterShapeMismatchFailsEveryRank(t *testing.T) {
	pool, err := NewPool(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = pool.Run(func(tr Transport) error {
		var parts [][]float64
		if tr.Rank() == Root {
			parts = [][]float64{{1}} // wrong: pool has 3 ranks
		}
		_, err := tr.ScatterFloat64s(parts)
		return err
	})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestPool_RunReturnsLowestRankedFailure(t *testing.T) {
	pool, err := NewPool(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantErr := errors.New("rank 1 boom")
	err = pool.Run(func(tr Transport) error {
		switch tr.Rank() {
		case 1:
			return wantErr
		case 3:
			return errors.New("rank 3 boom")
		default:
			return nil
		}
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the rank 1 error, got %v", err)
	}
}

func TestPool_BarrierIsReusable(t *testing.T) {
	const size, rounds = 4, 3
	pool, err := NewPool(size)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every rank increments before the barrier; after the barrier the counter
	// must reflect all arrivals for that round.
	var mu sync.Mutex
	counter := 0

	err = pool.Run(func(tr Transport) error {
		for round := 1; round <= rounds; round++ {
			mu.Lock()
			counter++
			mu.Unlock()
			tr.Barrier()
			mu.Lock()
			c := counter
			mu.Unlock()
			if c < round*size {
				return fmt.Errorf("rank %d passed barrier round %d with counter %d", tr.Rank(), round, c)
			}
			tr.Barrier()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("pool run failed: %v", err)
	}
	if counter != rounds*size {
		t.Fatalf("counter: got %d want %d", counter, rounds*size)
	}
}
