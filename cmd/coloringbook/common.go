package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/book"
	"github.com/nao1215/coloringbook/internal/config"
	"github.com/nao1215/coloringbook/internal/database"
	applog "github.com/nao1215/coloringbook/internal/log"
	"github.com/nao1215/coloringbook/internal/report"
)

// apiKeyEnv names the environment variable holding the generation API key.
const apiKeyEnv = "OPENAI_API_KEY"

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// applyFlag copies a flag value into dst, but only when the user set the
// flag. Unset flags leave the default or config-file value alone.
func applyFlag[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// addDirFlags registers the project directory flags.
func addDirFlags(cmd *cobra.Command) {
	cmd.Flags().String("input-dir", config.DefaultInputDir, "Directory of source images")
	cmd.Flags().String("output-dir", config.DefaultOutputDir, "Directory of finished pages (the page pool)")
	cmd.Flags().String("exports-dir", config.DefaultExportsDir, "Directory for assembled books and covers")
	cmd.Flags().String("logs-dir", config.DefaultLogsDir, "Directory for run logs and book manifests")
}

// addLedgerFlags registers the ledger flags.
func addLedgerFlags(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "", "Ledger directory (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false, "Do not record pages and books in the ledger")
}

// addReportFlags registers the summary format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Write report to specified file path (creates directories if needed)")
}

// buildConfig creates a Config from defaults, the configuration file and the
// flags shared by all commands. Command-specific flags are applied by the
// caller before Validate.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use the defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	for _, err := range []error{
		applyFlag(cmd, "input-dir", &cfg.InputDir, flags.GetString),
		applyFlag(cmd, "output-dir", &cfg.OutputDir, flags.GetString),
		applyFlag(cmd, "exports-dir", &cfg.ExportsDir, flags.GetString),
		applyFlag(cmd, "logs-dir", &cfg.LogsDir, flags.GetString),
		applyFlag(cmd, "db-dir", &cfg.DBDir, flags.GetString),
		applyFlag(cmd, "concurrency", &cfg.Concurrency, flags.GetInt),
		applyFlag(cmd, "json", &cfg.JSONReport, flags.GetBool),
		applyFlag(cmd, "markdown", &cfg.MarkdownReport, flags.GetBool),
		applyFlag(cmd, "report-file", &cfg.ReportFile, flags.GetString),
	} {
		if err != nil {
			return nil, err
		}
	}

	noDB, err := flags.GetBool("no-db")
	if err == nil && noDB {
		cfg.SaveToDB = false
	}

	return cfg, nil
}

// loadDotEnv reads .env from the working directory. A missing file is not
// an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// runEnv holds what a pipeline command needs while it runs: the logger
// writing to stderr and the run log, and the ledger when enabled.
type runEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	ledger  *database.Ledger
	logPath string
	closers []io.Closer
}

// newRunEnv opens logs/run-<ts>.txt and the ledger.
func newRunEnv(cmd *cobra.Command, cfg *config.Config, command string, now time.Time) (*runEnv, error) {
	if err := os.MkdirAll(cfg.LogsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	logPath := filepath.Join(cfg.LogsDir, "run-"+now.Format(book.TimestampLayout)+".txt")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is built from the configured logs directory
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	env := &runEnv{
		cfg:     cfg,
		logger:  applog.NewSecureLogger(io.MultiWriter(cmd.ErrOrStderr(), f), cfg.Verbose).With("command", command),
		logPath: logPath,
		closers: []io.Closer{f},
	}

	if cfg.SaveToDB {
		ledger, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		env.ledger = ledger
		env.closers = append(env.closers, ledger)
		env.logger.Debug("ledger opened", "path", ledger.Path())
	}

	return env, nil
}

// Close releases the ledger and the run log, newest first.
func (e *runEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.logger != nil {
			e.logger.Error("failed to close resource", "error", err)
		}
	}
	e.closers = nil
}

// newReportWriter selects the report format from cfg.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

// outputReport writes a report in the requested format to stdout, or to
// cfg.ReportFile when set. A JSON or Markdown report going to a file is
// echoed on stdout in the plain format.
func outputReport(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) (int, error)) error {
	if cfg.ReportFile == "" {
		_, err := write(newReportWriter(cfg, cmd.OutOrStdout()))
		return err
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w report.Writer = newReportWriter(cfg, f)
	if cfg.JSONReport || cfg.MarkdownReport {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(cmd.OutOrStdout()))
	}
	_, err = write(w)
	return err
}
