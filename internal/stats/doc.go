// Package stats defines the numeric domain for the harness.
//
// It is intentionally split into:
//   - Sample generation (seeded, per-stream deterministic RNG)
//   - Local reduction (per-rank Partial: count, sum, sum of squares)
//   - Combination (Final: combined count, mean, variance)
//
// Every function here is pure given its RNG stream; all cross-rank concerns
// (who generates, who combines) live in internal/harness.
package stats
