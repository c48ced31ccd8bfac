package model

import "time"

// BookManifest records one assembled book. It is written once as indented
// JSON next to the run logs and stored in the ledger.
type BookManifest struct {
	CreatedAt time.Time `json:"created_at"`

	// Paper is the trim size name ("letter" or "a4").
	Paper string `json:"paper"`

	DPI int `json:"dpi"`

	// Bleed is the bleed as given by the user ("none", "3mm", "0.125in").
	Bleed string `json:"bleed"`

	// BleedPx is the bleed added on every side, in pixels.
	BleedPx int `json:"bleed_px"`

	// PageWidth and PageHeight are the final page size in pixels, bleed included.
	PageWidth  int `json:"page_width"`
	PageHeight int `json:"page_height"`

	Shuffle bool `json:"shuffle"`

	// Seed is the seed the shuffle actually used. Zero when not shuffled.
	Seed uint64 `json:"seed,omitempty"`

	RequestedCount int `json:"requested_count"`
	PageCount      int `json:"page_count"`

	OutputPDF string `json:"output_pdf"`

	// InkMean and InkStdDev summarize the ink coverage of the selected pages.
	InkMean   float64 `json:"ink_mean"`
	InkStdDev float64 `json:"ink_stddev"`

	Pages []ManifestPage `json:"pages"`
}

// ManifestPage is one entry of the book in reading order.
type ManifestPage struct {
	// Position is 1-based.
	Position int    `json:"position"`
	Source   string `json:"source"`
	Path     string `json:"path"`

	InkCoverage float64 `json:"ink_coverage"`
}

// Sources returns the source names in page order.
func (m *BookManifest) Sources() []string {
	names := make([]string, len(m.Pages))
	for i, p := range m.Pages {
		names[i] = p.Source
	}
	return names
}
