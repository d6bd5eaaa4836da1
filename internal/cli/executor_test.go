package cli

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_ReportsSingleLineOnSuccess(t *testing.T) {
	var out bytes.Buffer
	res, err := Run([]string{"-workers", "4", "-seed", "7", "1000"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != ExitSuccess {
		t.Fatalf("exit code: got %d want %d", res.ExitCode, ExitSuccess)
	}
	if res.Final == nil || res.Final.Count != 1000 {
		t.Fatalf("expected a final result over 1000 samples, got %+v", res.Final)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one report line, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "1000 samples") || !strings.Contains(lines[0], "mean=") {
		t.Fatalf("unexpected report line: %q", lines[0])
	}
}

func TestRun_IdenticalSeededRunsProduceIdenticalOutput(t *testing.T) {
	args := []string{"-workers", "6", "-seed", "123", "-dist", "normal", "-mean", "3", "50000"}

	var out1, out2 bytes.Buffer
	if _, err := Run(args, &out1); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := Run(args, &out2); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if out1.String() != out2.String() {
		t.Fatalf("output differs across identical runs:\n%q\n%q", out1.String(), out2.String())
	}
}

func TestRun_BothStrategiesSucceed(t *testing.T) {
	for _, strategy := range []string{"scatter", "local"} {
		var out bytes.Buffer
		res, err := Run([]string{"-workers", "5", "-strategy", strategy, "10000"}, &out)
		if err != nil {
			t.Fatalf("%s run failed: %v", strategy, err)
		}
		if res.ExitCode != ExitSuccess {
			t.Fatalf("%s exit code: got %d", strategy, res.ExitCode)
		}
		if !strings.Contains(out.String(), "strategy="+strategy) {
			t.Fatalf("report does not name the strategy: %q", out.String())
		}
	}
}

func TestRun_InvalidInvocationWritesNothingToStdout(t *testing.T) {
	var out bytes.Buffer
	res, err := Run([]string{"0"}, &out)
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.ExitCode != ExitInvalidInvocation {
		t.Fatalf("exit code: got %d want %d", res.ExitCode, ExitInvalidInvocation)
	}
	if out.Len() != 0 {
		t.Fatalf("no output expected on failure, got %q", out.String())
	}
}

func TestRun_SampleDumpMatchesTotalCount(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "samples.txt")

	var out bytes.Buffer
	res, err := Run([]string{"-workers", "3", "-seed", "9", "-out", outPath, "250"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.ExitCode != ExitSuccess {
		t.Fatalf("exit code: got %d", res.ExitCode)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("opening dump: %v", err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	if lines != 250 {
		t.Fatalf("dump lines: got %d want 250", lines)
	}
}
