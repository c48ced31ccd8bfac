package book

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/model"
)

// InkStats returns the mean and sample standard deviation of page ink
// coverage. The deviation is 0 for fewer than two pages.
func InkStats(pages []ComposedPage) (mean, stddev float64) {
	if len(pages) == 0 {
		return 0, 0
	}
	ink := make([]float64, len(pages))
	for i, p := range pages {
		ink[i] = p.InkCoverage
	}
	if len(ink) == 1 {
		return ink[0], 0
	}
	return stat.MeanStdDev(ink, nil)
}

// WriteManifest writes m as indented JSON to path atomically.
func WriteManifest(path string, m *model.BookManifest) error {
	return export.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
}
