package batch

import (
	"context"
	"time"
)

// DefaultSize is the batch size used when Config.Size is not positive.
const DefaultSize = 50

// Config controls how a sweep is partitioned.
type Config struct {
	// Size is the number of items per batch. Defaults to DefaultSize.
	Size int

	// Pause is slept between batches, not after the final one. Zero means
	// no pause.
	Pause time.Duration
}

// Summary aggregates the outcome of one sweep.
type Summary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Process runs fn over every item in fixed-size batches. A failing item is
// counted and its error kept in the summary; processing always continues to
// the next item. The outcome is independent of the batch size.
//
// Process stops early only when ctx is cancelled, returning the summary of
// the work done so far together with the context error.
func Process[T any](ctx context.Context, items []T, cfg Config, fn func(ctx context.Context, item T) error) (*Summary, error) {
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}

	summary := &Summary{Total: len(items)}

	for start := 0; start < len(items); start += size {
		if start > 0 && cfg.Pause > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(cfg.Pause):
			}
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}

		for _, item := range items[start:end] {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if err := fn(ctx, item); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, err.Error())
				continue
			}
			summary.Succeeded++
		}
	}

	return summary, nil
}
