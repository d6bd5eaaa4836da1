package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"parmean/internal/harness"
	"parmean/internal/stats"
)

const (
	ExitSuccess           = 0
	ExitComputeFailure    = 1
	ExitInvalidInvocation = 2
	ExitInternalError     = 3
)

// Invocation is the fully canonicalized description of a run.
//
// All inputs are validated here, before any worker is started: a malformed
// invocation never reaches the harness (fail fast, no partial run).
type Invocation struct {
	// TotalCount is the positional "how much work" argument. Always > 0.
	TotalCount int

	// Workers is the fixed rank count. Always > 0; rank 0 doubles as
	// coordinator.
	Workers int

	StrategyName string
	Dist         stats.Distribution
	Mean         float64
	Seed         int64

	// OutPath, when set, is where the full generated dataset is written.
	// Only valid with the scatter strategy: under local generation the raw
	// samples never leave their ranks.
	OutPath string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI arguments into a canonical Invocation.
//
// Flags configure the run; exactly one positional argument carries the total
// sample count. No defaults are read from the environment.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("parmean", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	workers := fs.Int("workers", runtime.NumCPU(), "Worker count (ranks); rank 0 also computes.")
	strategy := fs.String("strategy", "scatter", "Work distribution strategy: scatter|local")
	dist := fs.String("dist", "uniform", "Sample distribution: uniform|normal")
	mean := fs.Float64("mean", 0, "Mean offset for normal draws; ignored for uniform.")
	seed := fs.Int64("seed", 1, "Run seed.")
	out := fs.String("out", "", "Write the full generated dataset to this file (scatter only).")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 1 {
		return Invocation{}, invalidInvocationf("expected exactly one positional argument (total sample count), got %q", strings.Join(fs.Args(), " "))
	}

	totalCount, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return Invocation{}, invalidInvocationf("total sample count must be an integer, got %q", fs.Arg(0))
	}
	if totalCount <= 0 {
		return Invocation{}, invalidInvocationf("total sample count must be positive, got %d", totalCount)
	}
	if *workers <= 0 {
		return Invocation{}, invalidInvocationf("--workers must be positive, got %d", *workers)
	}

	parsedDist, err := stats.ParseDistribution(*dist)
	if err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	// Validate the strategy name now so a typo fails before any rank starts;
	// the executor builds its own strategy value per run.
	if _, err := harness.ParseStrategy(*strategy); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	name := strings.ToLower(strings.TrimSpace(*strategy))

	if *out != "" && name != "scatter" {
		return Invocation{}, invalidInvocationf("--out requires the scatter strategy (raw samples are not gathered under %q)", name)
	}

	return Invocation{
		TotalCount:   totalCount,
		Workers:      *workers,
		StrategyName: name,
		Dist:         parsedDist,
		Mean:         *mean,
		Seed:         *seed,
		OutPath:      *out,
	}, nil
}

// ExitCode extracts a semantic exit code from a ParseInvocation error.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
