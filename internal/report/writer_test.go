package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/coloringbook/internal/model"
)

// createTestSummary creates a summary with sample data for testing.
func createTestSummary() model.SummarySnapshot {
	started := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	s := model.NewRunSummary("generate", started)
	s.RecordGenerated("dall-e-3")
	s.RecordGenerated("gpt-image-1")
	s.RecordProcessed(&model.ExportedPage{Source: "owl-01.png", Path: "output/owl-01_coloring.png", InkCoverage: 0.25})
	s.RecordSkipped("owl-02.png", "generate", errors.New("image generation failed after 3 attempts"))
	s.RecordWarning("owl-03.png", "blank image")
	s.Finish(started.Add(3 * time.Second))
	return s.Snapshot()
}

func createTestManifest() *model.BookManifest {
	return &model.BookManifest{
		CreatedAt:  time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC),
		Paper:      "letter",
		DPI:        300,
		Bleed:      "3mm",
		BleedPx:    35,
		PageWidth:  2620,
		PageHeight: 3370,
		Shuffle:    true,
		Seed:       42,
		PageCount:  2,
		OutputPDF:  "exports/book-letter-20250506_070809.pdf",
		InkMean:    0.2,
		InkStdDev:  0.05,
		Pages: []model.ManifestPage{
			{Position: 1, Source: "cat_coloring.png", Path: "output/cat_coloring.png", InkCoverage: 0.15},
			{Position: 2, Source: "dog_coloring.png", Path: "output/dog_coloring.png", InkCoverage: 0.25},
		},
	}
}

func createTestBooks() []BookRow {
	return []BookRow{
		{ID: 2, CreatedAt: time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC), Paper: "a4", PageCount: 40, OutputPDF: "exports/b.pdf"},
		{ID: 1, CreatedAt: time.Date(2025, 5, 5, 7, 8, 9, 0, time.UTC), Paper: "letter", PageCount: 30, OutputPDF: "exports/a.pdf"},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary lists counts, skipped items and warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSummary(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"SUMMARY: GENERATE",
			"Generated: 2",
			"Models:    dall-e-3, gpt-image-1",
			"Processed: 1",
			"Failed:    1",
			"Elapsed:   3s",
			"[x] owl-02.png (generate): image generation failed after 3 attempts",
			"[!] owl-03.png: blank image",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output lacks %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "PAGES") {
			t.Error("pages listed without verbose")
		}
	})

	t.Run("verbose summary lists pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteSummary(createTestSummary()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "owl-01.png -> output/owl-01_coloring.png (ink 25.0%)") {
			t.Errorf("page line missing:\n%s", buf.String())
		}
	})

	t.Run("manifest", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteManifest(createTestManifest()); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{"exports/book-letter-20250506_070809.pdf", "Bleed:     3mm (35 px)", "seed 42", "  2  dog_coloring.png"} {
			if !strings.Contains(output, want) {
				t.Errorf("output lacks %q:\n%s", want, output)
			}
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteBooks(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No books recorded yet.") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteBooks(createTestBooks()); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 || !strings.HasPrefix(lines[1], "2 ") || !strings.HasSuffix(lines[2], "exports/a.pdf") {
			t.Errorf("unexpected listing:\n%s", buf.String())
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint(), WithVersion("v1.2.3"))
		if _, err := w.WriteSummary(createTestSummary()); err != nil {
			t.Fatal(err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if got["version"] != "v1.2.3" || got["command"] != "generate" {
			t.Errorf("unexpected fields: %v", got)
		}
		if got["failed"] != float64(1) || got["processed"] != float64(1) {
			t.Errorf("counts = failed %v processed %v", got["failed"], got["processed"])
		}
	})

	t.Run("manifest round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteManifest(createTestManifest()); err != nil {
			t.Fatal(err)
		}
		var got model.BookManifest
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Seed != 42 || len(got.Pages) != 2 || got.Pages[1].Source != "dog_coloring.png" {
			t.Errorf("unexpected manifest: %+v", got)
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteBooks(nil); err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("output = %q, want []", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(createTestSummary()); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{"# Run Summary: generate", "## Skipped", "owl-02.png", "```mermaid", "## Warnings", "[!WARNING]"} {
			if !strings.Contains(output, want) {
				t.Errorf("output lacks %q:\n%s", want, output)
			}
		}
	})

	t.Run("clean summary shows a tip", func(t *testing.T) {
		t.Parallel()

		s := model.NewRunSummary("process", time.Now())
		s.RecordProcessed(&model.ExportedPage{Source: "a.png", Path: "output/a_coloring.png"})
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(s.Snapshot()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") || strings.Contains(buf.String(), "mermaid") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("manifest", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteManifest(createTestManifest()); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{"# Coloring Book", "## Page Order", "cat_coloring.png", "Shuffle seed"} {
			if !strings.Contains(output, want) {
				t.Errorf("output lacks %q:\n%s", want, output)
			}
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteBooks(createTestBooks()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "`exports/b.pdf`") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
	n, err := mw.WriteManifest(createTestManifest())
	if err != nil {
		t.Fatal(err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("n = %d, want %d", n, a.Len()+b.Len())
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("a writer received nothing")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.in, tt.max); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
