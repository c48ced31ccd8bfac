package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/coloringbook/internal/book"
	"github.com/nao1215/coloringbook/internal/report"
)

var _ pflag.Value = (*book.Bleed)(nil)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Assemble pages from the pool into a KDP interior PDF",
		Long: fmt.Sprintf(`Export binds pages from the page pool into a single PDF, one page per
sheet, and writes a JSON manifest of the book next to the run logs.

A book has between %d and %d pages. Pages are taken in file-name order
unless --shuffle is given; the shuffle seed is recorded in the manifest so
the same book can be rebuilt. With bleed, every page grows by the bleed on
each side and the artwork stays centered on the trim area.

Examples:
  # 40 pages on US Letter, no bleed
  coloringbook export --count 40

  # The whole pool on A4 with 3mm bleed, shuffled
  coloringbook export --paper a4 --bleed 3mm --shuffle

  # Rebuild a shuffled book
  coloringbook export --count 40 --shuffle --seed 1234`, book.MinPages, book.MaxPages),
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	var bleed book.Bleed
	cmd.Flags().IntP("count", "n", book.CountAll,
		fmt.Sprintf("Number of pages, %d..%d (default: the whole pool)", book.MinPages, book.MaxPages))
	cmd.Flags().String("paper", "", "Trim size: "+strings.Join(book.PaperNames(), ", ")+" (default letter)")
	cmd.Flags().Var(&bleed, "bleed", "Bleed per side, e.g. 3mm or 0.125in")
	cmd.Flags().Int("dpi", 0, "Page resolution (default 300)")
	cmd.Flags().Bool("shuffle", false, "Shuffle the page order")
	cmd.Flags().Uint64("seed", 0, "Shuffle seed (default: random, recorded in the manifest)")
	cmd.Flags().StringP("output", "o", "", "PDF path (default: exports/book-<paper>-<timestamp>.pdf)")
	cmd.Flags().IntP("concurrency", "p", 0,
		"Number of pages composed at once (default: derived from CPU count)")

	addDirFlags(cmd)
	addLedgerFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	b := &cfg.Book
	var output string
	for _, err := range []error{
		applyFlag(cmd, "count", &b.Count, flags.GetInt),
		applyFlag(cmd, "paper", &b.Paper, flags.GetString),
		applyFlag(cmd, "dpi", &b.DPI, flags.GetInt),
		applyFlag(cmd, "shuffle", &b.Shuffle, flags.GetBool),
		applyFlag(cmd, "seed", &b.Seed, flags.GetUint64),
		applyFlag(cmd, "output", &output, flags.GetString),
	} {
		if err != nil {
			return err
		}
	}
	if flags.Changed("bleed") {
		b.Bleed = flags.Lookup("bleed").Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	bleed, err := book.ParseBleed(b.Bleed)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	req := book.Request{
		Count:      b.Count,
		Paper:      b.Paper,
		Bleed:      bleed,
		DPI:        b.DPI,
		Shuffle:    b.Shuffle,
		Seed:       b.Seed,
		OutputPath: output,
	}
	// Nothing is created, not even the run log, for a book that cannot be built.
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := newRunEnv(cmd, cfg, "export", time.Now())
	if err != nil {
		return err
	}
	defer env.Close()

	opts := []book.AssemblerOption{
		book.WithAssemblerLogger(env.logger),
		book.WithWorkers(cfg.Workers()),
	}
	if env.ledger != nil {
		opts = append(opts, book.WithRecorder(env.ledger))
	}
	assembler := book.NewAssembler(cfg.OutputDir, cfg.ExportsDir, cfg.LogsDir, opts...)

	manifest, err := assembler.Assemble(ctx, req)
	if err != nil {
		env.logger.Error("export failed", "error", err)
		return err
	}

	return outputReport(cmd, cfg, func(w report.Writer) (int, error) {
		return w.WriteManifest(manifest)
	})
}
