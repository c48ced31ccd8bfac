package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/coloringbook/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"output", "o", config.DefaultConfigFile},
		{"force", "f", "false"},
	}
	for _, tt := range tests {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), "nested", ".coloringbook")

		stdout, _, err := executeCommand(t, "init", "-o", outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, outputPath) {
			t.Errorf("expected output to name the file, got %q", stdout)
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatalf("expected config file to be created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected permission 0600, got %o", perm)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), ".coloringbook")
		if err := os.WriteFile(outputPath, []byte("keep"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := executeCommand(t, "init", "-o", outputPath); err == nil {
			t.Fatal("expected error for existing file")
		}
		content, err := os.ReadFile(outputPath) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "keep" {
			t.Error("existing file was modified")
		}

		if _, _, err := executeCommand(t, "init", "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error with -f: %v", err)
		}
		content, err = os.ReadFile(outputPath) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "keep" {
			t.Error("expected file to be overwritten with -f")
		}
	})
}

// TestConfigTemplate checks that the template loads and matches the defaults.
func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile("templates/coloringbook.yaml")
	if err != nil {
		t.Fatalf("failed to read embedded template: %v", err)
	}
	path := filepath.Join(t.TempDir(), ".coloringbook")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	cfg := config.NewConfig()
	if err := file.ApplyTo(cfg); err != nil {
		t.Fatalf("ApplyTo() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("template config is invalid: %v", err)
	}

	want := config.NewConfig()
	if cfg.Transform != want.Transform {
		t.Errorf("template transform = %+v, want defaults %+v", cfg.Transform, want.Transform)
	}
	if cfg.Book != want.Book {
		t.Errorf("template book = %+v, want defaults %+v", cfg.Book, want.Book)
	}
	if cfg.Generate != want.Generate {
		t.Errorf("template generate = %+v, want defaults %+v", cfg.Generate, want.Generate)
	}
	if cfg.Cover != want.Cover {
		t.Errorf("template cover = %+v, want defaults %+v", cfg.Cover, want.Cover)
	}
}
