package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/config"
	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/model"
	"github.com/nao1215/coloringbook/internal/pipeline"
	"github.com/nao1215/coloringbook/internal/report"
)

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Convert every image in the input directory into a coloring page",
		Long: `Process converts each image in the input directory into black-and-white
line art and writes it to the page pool as <name>_coloring.png.

Each image goes through:
  decode -> [trim] -> [edges] -> binarize -> thicken -> [trim] -> fit -> export

Images are processed in parallel. A file that cannot be converted is skipped
and named in the run log; the other images are not affected.

Examples:
  # Convert input/ into output/ with the defaults (US Letter at 300 DPI)
  coloringbook process

  # Photographs: find edges first and use a lighter threshold
  coloringbook process --edges --threshold 200

  # A4 canvas at 300 DPI, trimming white margins first
  coloringbook process --resize 2480x3508 --trim`,
		Args: cobra.NoArgs,
		RunE: runProcessCmd,
	}

	addDirFlags(cmd)
	addTransformFlags(cmd)
	cmd.Flags().IntP("concurrency", "p", 0,
		"Number of images converted at once (default: derived from CPU count)")
	addLedgerFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// addTransformFlags registers the page transform flags.
func addTransformFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("threshold", "t", config.DefaultThreshold,
		"Binarization cut-off in [0,255]; pixels at or below it become ink")
	cmd.Flags().Int("thicken", config.DefaultThickenRadius,
		"Line thickening radius in pixels (0 disables)")
	cmd.Flags().Bool("trim", false, "Crop near-white margins")
	cmd.Flags().String("trim-order", string(config.TrimBefore),
		"Trim before or after binarization (before|after)")
	cmd.Flags().Bool("edges", false, "Run edge detection before binarization (for photographs)")
	cmd.Flags().String("resize", fmt.Sprintf("%dx%d", config.DefaultTargetWidth, config.DefaultTargetHeight),
		"Output canvas size WIDTHxHEIGHT in pixels")
	cmd.Flags().Int("dpi", config.DefaultDPI, "Resolution written into every page")
}

// applyTransformFlags copies the transform flags the user set into t.
func applyTransformFlags(cmd *cobra.Command, t *config.Transform) error {
	flags := cmd.Flags()
	var trimOrder string
	for _, err := range []error{
		applyFlag(cmd, "threshold", &t.Threshold, flags.GetInt),
		applyFlag(cmd, "thicken", &t.ThickenRadius, flags.GetInt),
		applyFlag(cmd, "trim", &t.TrimMargins, flags.GetBool),
		applyFlag(cmd, "trim-order", &trimOrder, flags.GetString),
		applyFlag(cmd, "edges", &t.DetectEdges, flags.GetBool),
		applyFlag(cmd, "dpi", &t.DPI, flags.GetInt),
	} {
		if err != nil {
			return err
		}
	}
	if trimOrder != "" {
		t.TrimOrder = config.TrimOrder(trimOrder)
	}

	if flags.Changed("resize") {
		size, err := flags.GetString("resize")
		if err != nil {
			return err
		}
		t.TargetWidth, t.TargetHeight, err = config.ParseSize(size)
		if err != nil {
			return err
		}
	}
	return nil
}

// runProcessCmd executes the process command.
func runProcessCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyTransformFlags(cmd, &cfg.Transform); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	env, err := newRunEnv(cmd, cfg, "process", startedAt)
	if err != nil {
		return err
	}
	defer env.Close()

	jobs, duplicates, err := pipeline.CollectInputs(cfg.InputDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		env.logger.Warn("no images found", "dir", cfg.InputDir)
	}

	summary := model.NewRunSummary("process", startedAt)
	for _, job := range duplicates {
		summary.RecordJob(job)
	}
	runErr := runPageBatch(ctx, env, jobs, summary, cfg.Workers())
	summary.Finish(time.Now())

	if err := finishRun(cmd, env, summary); err != nil {
		return err
	}
	return runErr
}

// newPageBatch returns a batch processor running lead, then the transform
// stages, then the ledger step when the ledger is open.
func newPageBatch(env *runEnv, concurrency int, lead ...pipeline.Step) *pipeline.BatchProcessor {
	cfg := env.cfg
	exporter := export.NewExporter(cfg.OutputDir,
		cfg.Transform.TargetWidth, cfg.Transform.TargetHeight, cfg.Transform.DPI)

	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(env.logger))
		p.AddSteps(lead...)
		p.AddSteps(pipeline.TransformSteps(cfg.Transform, exporter)...)
		if env.ledger != nil {
			p.AddStep(pipeline.NewRecordStep(env.ledger))
		}
		return p
	}

	return pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(env.logger),
	)
}

// runPageBatch transforms jobs into pool pages.
func runPageBatch(ctx context.Context, env *runEnv, jobs []*model.PageJob, summary *model.RunSummary, concurrency int) error {
	if len(jobs) == 0 {
		return nil
	}
	return newPageBatch(env, concurrency).ProcessBatch(ctx, jobs, summary)
}

// finishRun logs the skipped items and prints the summary.
func finishRun(cmd *cobra.Command, env *runEnv, summary *model.RunSummary) error {
	snap := summary.Snapshot()
	for _, item := range snap.Skipped {
		env.logger.Warn("skipped", "item", item.Name, "stage", item.Stage, "reason", item.Reason)
	}
	env.logger.Info("run finished",
		"generated", snap.Generated,
		"processed", snap.Processed,
		"skipped", snap.Failed(),
		"elapsed", snap.Elapsed.Round(time.Millisecond).String(),
		"log", env.logPath,
	)

	return outputReport(cmd, env.cfg, func(w report.Writer) (int, error) {
		return w.WriteSummary(snap)
	})
}
