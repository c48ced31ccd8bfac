package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/generate"
	"github.com/nao1215/coloringbook/internal/model"
	"github.com/nao1215/coloringbook/internal/pipeline"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [subject]",
		Short: "Generate coloring pages for a subject with an image model",
		Long: `Generate asks an image model for line drawings of a subject, saves them in
the input directory as <subject>-NN.png and converts them into pool pages.

The API key is read from OPENAI_API_KEY (a .env file in the working
directory is loaded first). With --model auto the preferred model is tried
first and the command falls back to the older model when the account has no
access to it. Each image is retried with exponential backoff.

Examples:
  # Ten pages of the default size
  coloringbook generate "friendly dinosaurs"

  # Twenty pages, only save the raw images
  coloringbook generate --prompt "ocean animals" --count 20 --skip-process

  # Force a model and log failed responses
  coloringbook generate "castles" --model dall-e-3 --debug -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerateCmd,
	}

	cmd.Flags().String("prompt", "", "Subject of the pages (alternative to the argument)")
	cmd.Flags().IntP("count", "n", 0, "Number of images to generate (default 10)")
	cmd.Flags().String("model", "", "Image model, or auto to fall back on access errors (default auto)")
	cmd.Flags().String("size", "", "Requested image size WIDTHxHEIGHT (default 1024x1024)")
	cmd.Flags().Int("max-concurrency", 0, "Number of generation requests in flight (default 3)")
	cmd.Flags().Int("attempts", 0, "Attempts per image before it is skipped (default 3)")
	cmd.Flags().Int("rpm", 0, "Maximum generation requests per minute (default 30)")
	cmd.Flags().Bool("skip-process", false, "Only save the generated images")
	cmd.Flags().Bool("debug", false, "Log the full error of every failed attempt")

	addDirFlags(cmd)
	addTransformFlags(cmd)
	addLedgerFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyTransformFlags(cmd, &cfg.Transform); err != nil {
		return err
	}

	flags := cmd.Flags()
	g := &cfg.Generate
	var subject string
	for _, err := range []error{
		applyFlag(cmd, "prompt", &subject, flags.GetString),
		applyFlag(cmd, "count", &g.Count, flags.GetInt),
		applyFlag(cmd, "model", &g.Model, flags.GetString),
		applyFlag(cmd, "size", &g.Size, flags.GetString),
		applyFlag(cmd, "max-concurrency", &g.MaxConcurrency, flags.GetInt),
		applyFlag(cmd, "attempts", &g.Attempts, flags.GetInt),
		applyFlag(cmd, "rpm", &g.RequestsPerMinute, flags.GetInt),
		applyFlag(cmd, "skip-process", &g.SkipProcess, flags.GetBool),
		applyFlag(cmd, "debug", &g.Debug, flags.GetBool),
	} {
		if err != nil {
			return err
		}
	}

	if len(args) == 1 {
		if subject != "" {
			return errors.New("give the subject either as an argument or with --prompt, not both")
		}
		subject = args[0]
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return errors.New("no subject provided (pass it as an argument or with --prompt)")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return err
	}
	generator, err := generate.NewOpenAIGenerator(os.Getenv(apiKeyEnv))
	if err != nil {
		return fmt.Errorf("%w (set %s in the environment or a .env file)", err, apiKeyEnv)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	env, err := newRunEnv(cmd, cfg, "generate", startedAt)
	if err != nil {
		return err
	}
	defer env.Close()

	service := generate.NewService(generator, g.Model, g.Size, cfg.InputDir,
		generate.WithRetrier(&generate.Retrier{
			Attempts: g.Attempts,
			Backoff:  generate.Exponential(time.Second),
		}),
		generate.WithRequestsPerMinute(g.RequestsPerMinute),
		generate.WithServiceLogger(env.logger),
		generate.WithDebug(g.Debug),
	)

	env.logger.Info("generating pages",
		"subject", subject,
		"count", g.Count,
		"model", g.Model,
		"size", g.Size,
	)

	jobs := pipeline.GenerationJobs(subject, g.Count, func(i int) string {
		return generate.FileName(subject, i)
	})
	summary := model.NewRunSummary("generate", startedAt)

	var batch *pipeline.BatchProcessor
	if g.SkipProcess {
		batch = pipeline.NewBatchProcessor(func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(env.logger))
			p.AddStep(pipeline.NewGenerateStep(service))
			return p
		}, pipeline.WithConcurrency(g.MaxConcurrency), pipeline.WithBatchLogger(env.logger))
	} else {
		batch = newPageBatch(env, g.MaxConcurrency, pipeline.NewGenerateStep(service))
	}

	runErr := batch.ProcessBatch(ctx, jobs, summary)
	summary.Finish(time.Now())

	if err := finishRun(cmd, env, summary); err != nil {
		return err
	}
	return runErr
}
