package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDrawing writes a white PNG with a dark rectangle in the middle.
func writeDrawing(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(255)
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				v = 40
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// projectArgs points every project directory into root and disables the ledger.
func projectArgs(root string) []string {
	return []string{
		"--input-dir", filepath.Join(root, "input"),
		"--output-dir", filepath.Join(root, "output"),
		"--exports-dir", filepath.Join(root, "exports"),
		"--logs-dir", filepath.Join(root, "logs"),
		"--no-db",
	}
}

type summaryJSON struct {
	Command   string `json:"command"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Skipped   []struct {
		Name  string `json:"name"`
		Stage string `json:"stage"`
	} `json:"skipped"`
}

func TestProcessCmd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDrawing(t, filepath.Join(root, "input", "cat.png"), 60, 80)
	writeDrawing(t, filepath.Join(root, "input", "dog.png"), 80, 60)
	if err := os.WriteFile(filepath.Join(root, "input", "broken.png"), []byte("not a png"), 0o600); err != nil {
		t.Fatal(err)
	}

	args := append([]string{"process", "--resize", "100x130", "--dpi", "72", "--json"}, projectArgs(root)...)
	stdout, stderr, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	var summary summaryJSON
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if summary.Command != "process" || summary.Processed != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 processed and 1 failed", summary)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Name != "broken.png" {
		t.Errorf("skipped = %+v, want broken.png", summary.Skipped)
	}

	for _, name := range []string{"cat_coloring.png", "dog_coloring.png"} {
		f, err := os.Open(filepath.Join(root, "output", name)) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 100 || cfg.Height != 130 {
			t.Errorf("%s is %dx%d, want 100x130", name, cfg.Width, cfg.Height)
		}
	}

	logs, err := filepath.Glob(filepath.Join(root, "logs", "run-*.txt"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one run log, got %v (%v)", logs, err)
	}
	content, err := os.ReadFile(logs[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "broken.png") {
		t.Error("run log should name the skipped item")
	}
	if !strings.Contains(stderr, "broken.png") {
		t.Error("stderr should name the skipped item")
	}
}

func TestProcessCmdErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"threshold out of range", []string{"--threshold", "300"}},
		{"bad trim order", []string{"--trim-order", "sideways"}},
		{"negative concurrency", []string{"--concurrency=-1"}},
		{"positional argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			args := append(append([]string{"process"}, tt.args...), projectArgs(root)...)
			if _, _, err := executeCommand(t, args...); err == nil {
				t.Error("expected error")
			}
			if _, err := os.Stat(filepath.Join(root, "output")); !os.IsNotExist(err) {
				t.Error("no output should be written on a configuration error")
			}
		})
	}

	t.Run("missing input directory", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		args := append([]string{"process"}, projectArgs(root)...)
		if _, _, err := executeCommand(t, args...); err == nil {
			t.Error("expected error for missing input directory")
		}
	})
}

func TestProcessCmdReportFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDrawing(t, filepath.Join(root, "input", "cat.png"), 60, 80)
	reportPath := filepath.Join(root, "reports", "run.md")

	args := append([]string{"process", "--markdown", "--report-file", reportPath}, projectArgs(root)...)
	stdout, stderr, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	content, err := os.ReadFile(reportPath) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(content), "Run Summary: process") {
		t.Errorf("report file should hold the Markdown summary, got:\n%s", content)
	}
	if !strings.Contains(stdout, "SUMMARY: PROCESS") {
		t.Errorf("stdout should echo the plain summary, got:\n%s", stdout)
	}
}

func TestProcessCmdSamePageName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDrawing(t, filepath.Join(root, "input", "cat.PNG"), 60, 80)
	writeDrawing(t, filepath.Join(root, "input", "cat.png"), 80, 60)

	args := append([]string{"process", "--json"}, projectArgs(root)...)
	stdout, stderr, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	var summary summaryJSON
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 processed and 1 failed", summary)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Name != "cat.png" || summary.Skipped[0].Stage != "collect" {
		t.Errorf("skipped = %+v, want cat.png at collect", summary.Skipped)
	}

	pages, err := filepath.Glob(filepath.Join(root, "output", "*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || filepath.Base(pages[0]) != "cat_coloring.png" {
		t.Errorf("pool = %v, want only cat_coloring.png", pages)
	}
}
