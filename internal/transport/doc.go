// Package transport abstracts the collective message-passing substrate the
// harness runs on: rank identity, worker count, and the two collectives the
// run actually performs (one scatter, one gather).
//
// Two implementations exist:
//   - Pool: in-process, one goroutine per rank joined by channels. Used by
//     tests and by the default CLI path.
//   - MPI: multi-process over OpenMPI via gompi (build tag "mpi").
//
// Coordinator/worker logic never depends on which one it runs over.
package transport
