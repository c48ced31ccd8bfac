package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/coloringbook/internal/cover"
)

func coverArgs(root string, args ...string) []string {
	return append(append([]string{"cover"}, args...),
		"--exports-dir", filepath.Join(root, "exports"),
		"--logs-dir", filepath.Join(root, "logs"),
	)
}

func TestCoverCmd(t *testing.T) {
	t.Parallel()

	t.Run("plain canvas", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		stdout, stderr, err := executeCommand(t, coverArgs(root,
			"Dinosaur Friends", "--no-bg", "--subtitle", "40 pages", "--mode", "dark", "--style", "cute")...)
		if err != nil {
			t.Fatalf("unexpected error: %v\n%s", err, stderr)
		}

		path := filepath.Join(root, "exports", "covers", "dinosaur-friends-cover.png")
		if !strings.Contains(stdout, path) {
			t.Errorf("expected output to name %s, got %q", path, stdout)
		}
		f, err := os.Open(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("expected cover file: %v", err)
		}
		defer f.Close()
		cfg, err := png.DecodeConfig(f)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != cover.Width || cfg.Height != cover.Height {
			t.Errorf("cover is %dx%d, want %dx%d", cfg.Width, cfg.Height, cover.Width, cover.Height)
		}
	})

	t.Run("background file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		bg := filepath.Join(root, "bg.png")
		writeDrawing(t, bg, 64, 40)
		if _, stderr, err := executeCommand(t, coverArgs(root, "Ocean", "--background", bg)...); err != nil {
			t.Fatalf("unexpected error: %v\n%s", err, stderr)
		}
		if _, err := os.Stat(filepath.Join(root, "exports", "covers", "ocean-cover.png")); err != nil {
			t.Errorf("expected cover file: %v", err)
		}
	})

	t.Run("missing background falls back to plain canvas", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		_, stderr, err := executeCommand(t, coverArgs(root, "Castles", "--background", filepath.Join(root, "nope.png"))...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "plain canvas") {
			t.Errorf("expected a warning about the background, got %q", stderr)
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			args []string
			want error
		}{
			{"blank title", []string{"  ", "--no-bg"}, cover.ErrEmptyTitle},
			{"unknown style", []string{"Title", "--no-bg", "--style", "grim"}, cover.ErrInvalidStyle},
		}
		for _, tt := range tests {
			root := t.TempDir()
			if _, _, err := executeCommand(t, coverArgs(root, tt.args...)...); !errors.Is(err, tt.want) {
				t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
			}
		}
	})
}
