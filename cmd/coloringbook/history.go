package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/database"
	"github.com/nao1215/coloringbook/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List assembled books recorded in the ledger",
		Long: `History lists the books recorded by export, newest first.
With --id the stored manifest of one book is printed, including the page
order and shuffle seed needed to rebuild it.

Examples:
  # List books
  coloringbook history

  # Show the manifest of book 3 as JSON
  coloringbook history --id 3 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("id", 0, "Print the manifest of this book")
	cmd.Flags().String("db-dir", "", "Ledger directory (default: XDG data directory)")
	addReportFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	ledger, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer ledger.Close()

	ctx := cmd.Context()
	if id != 0 {
		manifest, err := ledger.GetBookManifest(ctx, id)
		if err != nil {
			return err
		}
		return outputReport(cmd, cfg, func(w report.Writer) (int, error) {
			return w.WriteManifest(manifest)
		})
	}

	books, err := ledger.ListBooks(ctx)
	if err != nil {
		return err
	}
	rows := make([]report.BookRow, len(books))
	for i, b := range books {
		rows[i] = report.BookRow(b)
	}
	return outputReport(cmd, cfg, func(w report.Writer) (int, error) {
		return w.WriteBooks(rows)
	})
}
