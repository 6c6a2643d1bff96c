package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// ============================================================================
// Process Tests
// ============================================================================

func TestProcess_AllSucceed_CountsEveryItem(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}

	summary, err := Process(context.Background(), items, Config{Size: 2}, func(_ context.Context, _ int) error {
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Total != 5 {
		t.Errorf("expected total 5, got %d", summary.Total)
	}
	if summary.Succeeded != 5 {
		t.Errorf("expected 5 succeeded, got %d", summary.Succeeded)
	}
	if summary.Failed != 0 {
		t.Errorf("expected 0 failed, got %d", summary.Failed)
	}
}

func TestProcess_ItemFailure_ContinuesToRemainingItems(t *testing.T) {
	t.Parallel()
	items := []string{"a", "b", "c", "d"}
	var processed []string

	summary, err := Process(context.Background(), items, Config{Size: 2}, func(_ context.Context, item string) error {
		processed = append(processed, item)
		if item == "b" {
			return errors.New("b is broken")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(processed) != 4 {
		t.Errorf("expected all 4 items processed despite failure, got %d", len(processed))
	}
	if summary.Succeeded != 3 {
		t.Errorf("expected 3 succeeded, got %d", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", summary.Failed)
	}
	if len(summary.Errors) != 1 || summary.Errors[0] != "b is broken" {
		t.Errorf("expected error list [b is broken], got %v", summary.Errors)
	}
}

func TestProcess_OutcomeIndependentOfBatchSize(t *testing.T) {
	t.Parallel()
	items := make([]int, 17)
	for i := range items {
		items[i] = i
	}

	run := func(size int) *Summary {
		summary, err := Process(context.Background(), items, Config{Size: size}, func(_ context.Context, item int) error {
			if item%5 == 0 {
				return fmt.Errorf("item %d failed", item)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error for size %d, got %v", size, err)
		}
		return summary
	}

	for _, size := range []int{1, 3, 17, 100} {
		summary := run(size)
		if summary.Succeeded != 13 {
			t.Errorf("size %d: expected 13 succeeded, got %d", size, summary.Succeeded)
		}
		if summary.Failed != 4 {
			t.Errorf("size %d: expected 4 failed, got %d", size, summary.Failed)
		}
	}
}

func TestProcess_EmptyItems_ReturnsEmptySummary(t *testing.T) {
	t.Parallel()

	summary, err := Process(context.Background(), []int{}, Config{}, func(_ context.Context, _ int) error {
		t.Error("fn should not be called for empty input")
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Total != 0 || summary.Succeeded != 0 || summary.Failed != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestProcess_ZeroSize_UsesDefault(t *testing.T) {
	t.Parallel()
	items := make([]int, DefaultSize+1)

	summary, err := Process(context.Background(), items, Config{}, func(_ context.Context, _ int) error {
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Succeeded != DefaultSize+1 {
		t.Errorf("expected %d succeeded, got %d", DefaultSize+1, summary.Succeeded)
	}
}

func TestProcess_ContextCancelled_StopsEarly(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	items := []int{1, 2, 3, 4, 5, 6}
	var processed int

	summary, err := Process(ctx, items, Config{Size: 2}, func(_ context.Context, item int) error {
		processed++
		if item == 2 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if processed != 2 {
		t.Errorf("expected 2 items processed before cancellation, got %d", processed)
	}
	if summary.Succeeded != 2 {
		t.Errorf("expected summary to cover work done so far, got %+v", summary)
	}
}

func TestProcess_PauseBetweenBatches_NotAfterFinal(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4}
	pause := 30 * time.Millisecond

	start := time.Now()
	_, err := Process(context.Background(), items, Config{Size: 2, Pause: pause}, func(_ context.Context, _ int) error {
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Two batches: exactly one pause between them.
	if elapsed < pause {
		t.Errorf("expected at least one pause (%v), elapsed %v", pause, elapsed)
	}
	if elapsed > 3*pause {
		t.Errorf("expected roughly one pause, elapsed %v", elapsed)
	}
}
