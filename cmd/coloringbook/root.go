package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for coloringbook.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coloringbook",
		Short: "Turn pictures into coloring pages and bind them into a book",
		Long: `coloringbook converts images into clean black-and-white line art at print
resolution and assembles a pool of pages into a KDP-ready PDF.

A typical project keeps four directories side by side:
  input/    raw or generated source images
  output/   the page pool (<name>_coloring.png)
  exports/  assembled PDFs and covers
  logs/     run logs and book manifests

Settings are read from .coloringbook in the current or home directory, or
from ~/.config/coloringbook/config.yaml, and can be overridden with flags.
OPENAI_API_KEY may be set in a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .coloringbook in current or home directory)")

	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCoverCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
