// Package rlog is a verbosity-gated debug logger for rank-tagged traces.
//
// Output is off unless the VERBOSE environment variable is a positive
// integer, so the default run stays a single report line on stdout.
package rlog

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

type Topic string

const (
	TopicPool    Topic = "POOL"
	TopicMPI     Topic = "MPI "
	TopicCoord   Topic = "CORD"
	TopicWorker  Topic = "WORK"
	TopicScatter Topic = "SCTR"
	TopicGather  Topic = "GTHR"
)

var (
	once      sync.Once
	verbosity int
	start     time.Time
)

func setup() {
	v := os.Getenv("VERBOSE")
	if v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid VERBOSE value %q", v)
		}
		verbosity = level
	}
	start = time.Now()
}

// Debug logs one rank-tagged line when verbosity is enabled. A rank of -1
// means the message is not tied to a rank.
func Debug(topic Topic, rank int, format string, args ...any) {
	once.Do(setup)
	if verbosity < 1 {
		return
	}
	elapsed := time.Since(start).Milliseconds()
	var prefix string
	if rank < 0 {
		prefix = fmt.Sprintf("%06d %s ", elapsed, topic)
	} else {
		prefix = fmt.Sprintf("%06d %s [%d] ", elapsed, topic, rank)
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
