package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/coloringbook/internal/model"
)

// DefaultConcurrency is the worker count when none is configured.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent processing of many page jobs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single image
// 2. Generation and plain processing use the same batch with different pipelines
// 3. The run summary is a batch concern, not a step concern
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job.
	// We use a factory so pipeline state never leaks between jobs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of jobs in flight.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job through a fresh pipeline, at most
// concurrency at a time, and folds each outcome into summary.
//
// Design decision: We use errgroup.SetLimit rather than a hand-written
// worker pool. Each job gets its own goroutine but only concurrency of
// them run simultaneously. Per-job failures are recorded in the summary and
// never returned to errgroup, so one corrupt file cannot cancel its siblings.
//
// The returned error is non-nil only when ctx was cancelled. Jobs that never
// started are left pending and are not recorded.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*model.PageJob, summary *model.RunSummary) error {
	return bp.ProcessBatchWithCallback(ctx, jobs, summary, nil)
}

// ProcessBatchWithCallback is ProcessBatch with a per-job callback, called
// from the worker goroutine once the job is recorded. The callback must be
// safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []*model.PageJob,
	summary *model.RunSummary,
	callback func(job *model.PageJob, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_items", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			// Check for cancellation before starting
			if err := ctx.Err(); err != nil {
				return err
			}

			bp.logger.Debug("processing item",
				"item", job.Name,
				"index", i+1,
				"total", len(jobs),
			)

			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, job) //nolint:errcheck // the failure is recorded on the job
			summary.RecordJob(job)

			for _, w := range job.Warnings {
				bp.logger.Warn("item warning", "item", job.Name, "warning", w)
			}
			if job.Failed() {
				bp.logger.Warn("item skipped",
					"item", job.Name,
					"stage", job.FailedStep,
					"reason", job.Err,
				)
			} else {
				bp.logger.Info("item completed", "item", job.Name)
			}

			if callback != nil {
				callback(job, i)
			}

			// Don't return the job error to errgroup; it is in the summary.
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_items", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return err
}
