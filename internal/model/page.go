package model

import (
	"time"

	"github.com/nao1215/coloringbook/internal/raster"
)

// ExportedPage describes one coloring page written to the output pool.
// It is immutable once the exporter has published the file.
type ExportedPage struct {
	// Path is the final location of the PNG file.
	Path string `json:"path"`

	// Source is the input file name the page was produced from.
	Source string `json:"source"`

	// Width and Height are the pixel dimensions of the page canvas.
	Width  int `json:"width"`
	Height int `json:"height"`

	// DPI is the resolution recorded in the PNG pHYs chunk.
	DPI int `json:"dpi"`

	// Digest is the hex SHA3-256 of the encoded file.
	Digest string `json:"digest"`

	// InkCoverage is the fraction of black pixels, in [0, 1].
	InkCoverage float64 `json:"ink_coverage"`

	// CreatedAt is when the file was published.
	CreatedAt time.Time `json:"created_at"`
}

// PageJob is the mutable state of one item while it moves through a pipeline.
// A job is owned by exactly one goroutine at a time; steps read and replace
// Image rather than editing its pixels.
type PageJob struct {
	// Name identifies the item in logs and summaries (file name or slug).
	Name string

	// SourcePath is the input file. Generation steps fill it in once the
	// generated image is saved.
	SourcePath string

	// Prompt and Index are set for generated items.
	Prompt string
	Index  int

	// Model is the generation model that produced the source, if any.
	Model string

	// Image is the working raster between steps.
	Image *raster.Image

	// Page is set by the export step.
	Page *ExportedPage

	// Status is the furthest state the job reached.
	Status ItemStatus

	// FailedStep and Err describe the step that stopped the job.
	FailedStep string
	Err        error

	// Warnings collects non-fatal conditions such as a blank image.
	Warnings []string

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string
}

// NewPageJob creates a job for an existing input file.
func NewPageJob(name, sourcePath string) *PageJob {
	return &PageJob{
		Name:       name,
		SourcePath: sourcePath,
		Status:     StatusPending,
	}
}

// AddWarning records a non-fatal condition on the job.
func (j *PageJob) AddWarning(msg string) {
	j.Warnings = append(j.Warnings, msg)
}

// Failed reports whether a step stopped the job.
func (j *PageJob) Failed() bool {
	return j.Err != nil
}
