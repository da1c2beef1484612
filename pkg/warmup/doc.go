// Package warmup pre-populates the payload cache by fetching a fixed set of
// upstream requests in parallel.
//
// Example usage:
//
//	config := warmup.DefaultConfig()
//	w := warmup.New(eduClient, config)
//	result := w.Run(ctx, jobs)
//
// The warmer:
//   - Spawns a worker pool (default 4 workers)
//   - Distributes jobs across workers
//   - Counts loaded, absent and skipped jobs
//   - Stops scheduling when the context is cancelled
//
// Absent results are expected (empty districts, upstream outages) and never
// fail a run.
package warmup
