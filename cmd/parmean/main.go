package main

import (
	"fmt"
	"os"

	"parmean/internal/cli"
)

// main is a thin boundary: canonicalize arguments, run once, map the outcome
// to an exit code. All behavior lives behind internal/cli for testability.
func main() {
	res, err := cli.Run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(res.ExitCode)
}
