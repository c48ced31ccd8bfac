package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/config"
)

// parsedCmd returns cmd with the root persistent flags attached and args parsed.
func parsedCmd(t *testing.T, cmd *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.Flags().StringP("config", "c", "", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildConfigPrecedence(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
input_dir: pictures
transform:
  threshold: 100
  thicken_radius: 3
book:
  paper: a4
`)
	cmd := parsedCmd(t, NewProcessCmd(), "--config", path, "--threshold", "90", "--no-db", "-v")

	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if err := applyTransformFlags(cmd, &cfg.Transform); err != nil {
		t.Fatalf("applyTransformFlags() error = %v", err)
	}

	if cfg.Transform.Threshold != 90 {
		t.Errorf("threshold = %d, want flag value 90", cfg.Transform.Threshold)
	}
	if cfg.Transform.ThickenRadius != 3 {
		t.Errorf("thicken radius = %d, want file value 3", cfg.Transform.ThickenRadius)
	}
	if cfg.InputDir != "pictures" {
		t.Errorf("input dir = %q, want file value", cfg.InputDir)
	}
	if cfg.Book.Paper != "a4" {
		t.Errorf("paper = %q, want file value", cfg.Book.Paper)
	}
	if cfg.Transform.DPI != config.DefaultDPI {
		t.Errorf("dpi = %d, want default", cfg.Transform.DPI)
	}
	if cfg.SaveToDB {
		t.Error("--no-db should disable the ledger")
	}
	if !cfg.Verbose {
		t.Error("-v should enable verbose logging")
	}
}

func TestBuildConfigErrors(t *testing.T) {
	t.Parallel()

	t.Run("explicit config file missing", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		cmd := parsedCmd(t, NewProcessCmd(), "--config", missing)
		if _, err := buildConfig(cmd); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown key in config file", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tresholds: 3\n")
		cmd := parsedCmd(t, NewProcessCmd(), "--config", path)
		if _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("bad resize flag", func(t *testing.T) {
		t.Parallel()
		cmd := parsedCmd(t, NewProcessCmd(), "--resize", "wide")
		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if err := applyTransformFlags(cmd, &cfg.Transform); !errors.Is(err, config.ErrInvalidSize) {
			t.Errorf("error = %v, want ErrInvalidSize", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, _, err := executeCommand(t, "process", "--json", "--markdown", "--no-db",
			"--input-dir", dir, "--logs-dir", filepath.Join(dir, "logs"))
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("error = %v, want ErrConflictingReportFormats", err)
		}
	})
}

func TestApplyFlagKeepsUnsetValues(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Int("count", 5, "")
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	v := 42
	if err := applyFlag(cmd, "count", &v, cmd.Flags().GetInt); err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Errorf("unset flag overwrote value: %d", v)
	}

	if err := cmd.ParseFlags([]string{"--count", "7"}); err != nil {
		t.Fatal(err)
	}
	if err := applyFlag(cmd, "count", &v, cmd.Flags().GetInt); err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Errorf("value = %d, want 7", v)
	}
}
