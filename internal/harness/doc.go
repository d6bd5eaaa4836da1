// Package harness wires the coordinator and worker roles over a transport.
//
// A run is strictly: distribute (barrier) -> reduce (parallel, no cross-rank
// traffic) -> gather (barrier) -> combine (root only). There is no second
// round, no retry, and no partial aggregation before all ranks reported.
//
// The two distribution strategies are interchangeable policies behind the
// Strategy interface; coordinator and worker logic is identical under both.
package harness
