package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/coloringbook/internal/model"
)

func testJobs(n int) []*model.PageJob {
	jobs := make([]*model.PageJob, n)
	for i := range jobs {
		name := fmt.Sprintf("page-%02d.png", i)
		jobs[i] = model.NewPageJob(name, "input/"+name)
	}
	return jobs
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(5))
		if bp.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests batch execution.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("records successes and failures without stopping", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "export",
				doFunc: func(_ context.Context, job *model.PageJob) error {
					if job.Name == "page-03.png" || job.Name == "page-07.png" {
						return errors.New("unreadable")
					}
					job.Page = &model.ExportedPage{Source: job.Name}
					job.Status = model.StatusProcessed
					return nil
				},
			})
			return p
		}

		jobs := testJobs(10)
		summary := model.NewRunSummary("process", time.Now())
		bp := NewBatchProcessor(factory, WithConcurrency(3))

		if err := bp.ProcessBatch(context.Background(), jobs, summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snap := summary.Snapshot()
		if snap.Processed != 8 {
			t.Errorf("expected 8 processed, got %d", snap.Processed)
		}
		if snap.Failed() != 2 {
			t.Fatalf("expected 2 skipped, got %d", snap.Failed())
		}
		if snap.Skipped[0].Name != "page-03.png" || snap.Skipped[0].Stage != "export" || snap.Skipped[0].Reason != "unreadable" {
			t.Errorf("unexpected skipped item: %+v", snap.Skipped[0])
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "slow",
				doFunc: func(_ context.Context, _ *model.PageJob) error {
					n := current.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					current.Add(-1)
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		if err := bp.ProcessBatch(context.Background(), testJobs(8), model.NewRunSummary("t", time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent jobs, saw %d", peak.Load())
		}
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "count",
				doFunc: func(_ context.Context, _ *model.PageJob) error {
					calls.Add(1)
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory)
		err := bp.ProcessBatch(ctx, testJobs(5), model.NewRunSummary("t", time.Now()))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no step calls, got %d", calls.Load())
		}
	})
}

// TestBatchProcessorWithCallback tests streaming results via callback.
func TestBatchProcessorWithCallback(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := make(map[int]string)

	bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(4))
	jobs := testJobs(6)
	err := bp.ProcessBatchWithCallback(context.Background(), jobs, model.NewRunSummary("t", time.Now()),
		func(job *model.PageJob, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = job.Name
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 callbacks, got %d", len(seen))
	}
	for i, job := range jobs {
		if seen[i] != job.Name {
			t.Errorf("callback index %d got %q, want %q", i, seen[i], job.Name)
		}
	}
}
