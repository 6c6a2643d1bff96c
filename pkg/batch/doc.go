// Package batch provides a fixed-size batch processor for background
// maintenance work.
//
// Large sweeps (karma recalculation over every user, deletion finalization
// over every due request) must not monopolize the data store, and one bad
// item must not abort the rest of the sweep. The processor covers both:
// items are worked in fixed-size batches with a pause between batches, and
// per-item failures are collected rather than propagated.
//
// # Usage
//
//	summary, err := batch.Process(ctx, userIDs, batch.Config{
//	    Size:  50,
//	    Pause: 100 * time.Millisecond,
//	}, func(ctx context.Context, id string) error {
//	    return recalculate(ctx, id)
//	})
//
// Process only returns an error when the context is cancelled; the summary
// carries the success and failure counts either way.
package batch
