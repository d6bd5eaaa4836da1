package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"parmean/internal/harness"
	"parmean/internal/stats"
	"parmean/internal/transport"
)

type CLIResult struct {
	ExitCode int

	// Final is the combined statistic on success; nil otherwise.
	Final *stats.Final
}

// Execute maps a canonical Invocation to one harness run over the in-process
// pool and writes the single report line to stdout.
//
// Responsibilities:
//   - Build the pool and strategy from the invocation.
//   - Translate harness outcomes to semantic exit codes.
//   - On failure, write nothing to stdout: no partial output may look like a
//     result.
func Execute(inv Invocation, stdout io.Writer) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitInternalError}

	pool, err := transport.NewPool(inv.Workers)
	if err != nil {
		return res, err
	}
	strat, err := harness.ParseStrategy(inv.StrategyName)
	if err != nil {
		res.ExitCode = ExitInvalidInvocation
		return res, err
	}
	var dump *harness.ScatterGather
	if sg, ok := strat.(*harness.ScatterGather); ok && inv.OutPath != "" {
		sg.KeepDataset = true
		dump = sg
	}

	ws := harness.WorkSpec{
		TotalCount: inv.TotalCount,
		Dist:       inv.Dist,
		Mean:       inv.Mean,
		Seed:       inv.Seed,
	}

	// The strategy value is shared across rank goroutines; only rank 0 ever
	// writes to it (ScatterGather.Dataset), and only after the pool returned
	// do we read it back.
	var final *stats.Final
	runErr := pool.Run(func(tr transport.Transport) error {
		f, err := harness.Run(tr, ws, strat)
		if tr.Rank() == transport.Root {
			final = f
		}
		return err
	})
	if runErr != nil {
		res.ExitCode = translateRunError(runErr)
		return res, runErr
	}
	if final == nil {
		return res, fmt.Errorf("pool run finished without a final result")
	}

	if dump != nil {
		if err := writeSampleDump(inv.OutPath, dump.Dataset); err != nil {
			return res, err
		}
	}

	fmt.Fprintf(stdout, "%d samples (%s, strategy=%s, workers=%d): mean=%.6f variance=%.6f\n",
		final.Count, inv.Dist, inv.StrategyName, inv.Workers, final.Mean, final.Variance)

	res.ExitCode = ExitSuccess
	res.Final = final
	return res, nil
}

func translateRunError(err error) int {
	switch {
	case errors.Is(err, stats.ErrInvalidArgument):
		return ExitInvalidInvocation
	case errors.Is(err, stats.ErrNoSamples):
		return ExitComputeFailure
	default:
		// Includes transport failures: fatal, unrecoverable.
		return ExitInternalError
	}
}

// writeSampleDump writes the dataset one value per line, atomically, so a
// crashed run never leaves a truncated dump behind.
func writeSampleDump(path string, samples []float64) error {
	var b strings.Builder
	for _, v := range samples {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return writeFileAtomic(path, []byte(b.String()), 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
