// Package metrics provides constants used across metric definitions.
package metrics

// Run outcomes recorded by ImporterMetrics.
const (
	// OutcomeCommitted is a run whose transaction committed.
	OutcomeCommitted = "committed"
	// OutcomeDryRun is a run that completed and was rolled back on request.
	OutcomeDryRun = "dry_run"
	// OutcomeFailed is a run aborted by an error.
	OutcomeFailed = "failed"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// durationBuckets covers submissions from a few milliseconds to two minutes.
var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}
