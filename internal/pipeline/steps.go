package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nao1215/coloringbook/internal/config"
	"github.com/nao1215/coloringbook/internal/model"
	"github.com/nao1215/coloringbook/internal/raster"
)

// Step names. They appear in logs and as the stage of skipped items.
const (
	StepCollect  = "collect"
	StepGenerate = "generate"
	StepDecode   = "decode"
	StepTrim     = "trim"
	StepEdges    = "edges"
	StepBinarize = "binarize"
	StepThicken  = "thicken"
	StepFit      = "fit"
	StepExport   = "export"
	StepRecord   = "record"
)

const blankImageMsg = "blank image: nothing darker than near-white, trim skipped"

var (
	// ErrNoImage is returned when a raster step runs before decode.
	ErrNoImage = errors.New("job has no decoded image")
	// ErrDuplicateOutput marks an input whose page name is already taken by
	// another input, e.g. cat.png and cat.jpg.
	ErrDuplicateOutput = errors.New("another input produces the same page")
)

// PageExporter publishes a finished page. export.Exporter implements it.
type PageExporter interface {
	Export(img *raster.Image, source string) (*model.ExportedPage, error)
}

// PageRecorder stores an exported page and finds earlier pages with the
// same content. database.Ledger implements it.
type PageRecorder interface {
	RecordPage(ctx context.Context, page *model.ExportedPage) error
	PagesByDigest(ctx context.Context, digest string) ([]*model.ExportedPage, error)
}

// SourceGenerator produces the input image of a generated job and returns
// the saved file and the model that produced it. generate.Service
// implements it.
type SourceGenerator interface {
	GenerateSource(ctx context.Context, prompt string, index int) (path, model string, err error)
}

// TransformSteps returns the transform stages for cfg in execution order:
// decode, [trim], [edges], binarize, thicken, [trim], fit, export.
func TransformSteps(cfg config.Transform, exporter PageExporter) []Step {
	steps := []Step{DecodeStep{}}
	if cfg.TrimMargins && cfg.TrimOrder == config.TrimBefore {
		steps = append(steps, TrimStep{})
	}
	if cfg.DetectEdges {
		steps = append(steps, EdgeStep{})
	}
	steps = append(steps,
		BinarizeStep{Threshold: cfg.Threshold},
		ThickenStep{Radius: cfg.ThickenRadius},
	)
	if cfg.TrimMargins && cfg.TrimOrder == config.TrimAfter {
		steps = append(steps, TrimStep{})
	}
	return append(steps,
		FitStep{Width: cfg.TargetWidth, Height: cfg.TargetHeight},
		NewExportStep(exporter),
	)
}

// DecodeStep loads the job's source file into a grayscale raster.
type DecodeStep struct{}

// Name returns the step name.
func (DecodeStep) Name() string { return StepDecode }

// Do executes the decode step.
func (DecodeStep) Do(_ context.Context, job *model.PageJob) error {
	if job.SourcePath == "" {
		return fmt.Errorf("%w: job %s has no source file", raster.ErrInvalidInput, job.Name)
	}
	img, err := raster.Load(job.SourcePath)
	if err != nil {
		return err
	}
	job.Image = img
	return nil
}

// TrimStep crops near-white margins. A blank image is kept as is and
// recorded as a warning on the job.
type TrimStep struct{}

// Name returns the step name.
func (TrimStep) Name() string { return StepTrim }

// Do executes the trim step.
func (TrimStep) Do(_ context.Context, job *model.PageJob) error {
	if job.Image == nil {
		return ErrNoImage
	}
	img, err := raster.Trim(job.Image)
	if errors.Is(err, raster.ErrBlankImage) {
		job.AddWarning(blankImageMsg)
		err = nil
	}
	if err != nil {
		return err
	}
	job.Image = img
	return nil
}

// EdgeStep replaces the picture with its inverted edge response.
type EdgeStep struct{}

// Name returns the step name.
func (EdgeStep) Name() string { return StepEdges }

// Do executes the edge detection step.
func (EdgeStep) Do(_ context.Context, job *model.PageJob) error {
	return apply(job, raster.DetectEdges)
}

// BinarizeStep reduces the image to pure black and white.
type BinarizeStep struct {
	Threshold int
}

// Name returns the step name.
func (BinarizeStep) Name() string { return StepBinarize }

// Do executes the binarize step.
func (s BinarizeStep) Do(_ context.Context, job *model.PageJob) error {
	return apply(job, func(img *raster.Image) (*raster.Image, error) {
		return raster.Binarize(img, s.Threshold)
	})
}

// ThickenStep dilates the outlines.
type ThickenStep struct {
	Radius int
}

// Name returns the step name.
func (ThickenStep) Name() string { return StepThicken }

// Do executes the thicken step.
func (s ThickenStep) Do(_ context.Context, job *model.PageJob) error {
	return apply(job, func(img *raster.Image) (*raster.Image, error) {
		return raster.Thicken(img, s.Radius)
	})
}

// FitStep scales the art onto the print canvas.
type FitStep struct {
	Width  int
	Height int
}

// Name returns the step name.
func (FitStep) Name() string { return StepFit }

// Do executes the fit step.
func (s FitStep) Do(_ context.Context, job *model.PageJob) error {
	return apply(job, func(img *raster.Image) (*raster.Image, error) {
		return raster.Fit(img, s.Width, s.Height)
	})
}

// ExportStep publishes the page to the pool.
type ExportStep struct {
	exporter PageExporter
}

// NewExportStep creates an export step writing through exporter.
func NewExportStep(exporter PageExporter) *ExportStep {
	return &ExportStep{exporter: exporter}
}

// Name returns the step name.
func (*ExportStep) Name() string { return StepExport }

// Do executes the export step. The working raster is released afterwards;
// the page on disk is the result from here on.
func (s *ExportStep) Do(_ context.Context, job *model.PageJob) error {
	if job.Image == nil {
		return ErrNoImage
	}
	page, err := s.exporter.Export(job.Image, filepath.Base(job.SourcePath))
	if err != nil {
		return err
	}
	job.Page = page
	job.Status = model.StatusProcessed
	job.Image = nil
	return nil
}

// RecordStep writes the exported page to the ledger.
type RecordStep struct {
	recorder PageRecorder
}

// NewRecordStep creates a ledger step.
func NewRecordStep(recorder PageRecorder) *RecordStep {
	return &RecordStep{recorder: recorder}
}

// Name returns the step name.
func (*RecordStep) Name() string { return StepRecord }

// Do executes the record step. The page is already published when this
// runs, so a ledger failure is a warning and the job still succeeds. A page
// whose digest matches a page stored under another path is flagged as a
// duplicate.
func (s *RecordStep) Do(ctx context.Context, job *model.PageJob) error {
	if job.Page == nil {
		return fmt.Errorf("record %s: page was not exported", job.Name)
	}
	if job.Page.Digest != "" {
		if same, err := s.recorder.PagesByDigest(ctx, job.Page.Digest); err == nil {
			for _, p := range same {
				if p.Path != job.Page.Path {
					job.AddWarning("same artwork as " + filepath.Base(p.Path))
					break
				}
			}
		}
	}
	if err := s.recorder.RecordPage(ctx, job.Page); err != nil {
		job.AddWarning("not recorded in ledger: " + err.Error())
	}
	return nil
}

// GenerateStep asks the generator for the job's source image.
type GenerateStep struct {
	generator SourceGenerator
}

// NewGenerateStep creates a generation step.
func NewGenerateStep(generator SourceGenerator) *GenerateStep {
	return &GenerateStep{generator: generator}
}

// Name returns the step name.
func (*GenerateStep) Name() string { return StepGenerate }

// Do executes the generation step.
func (s *GenerateStep) Do(ctx context.Context, job *model.PageJob) error {
	path, usedModel, err := s.generator.GenerateSource(ctx, job.Prompt, job.Index)
	if err != nil {
		return err
	}
	job.SourcePath = path
	job.Model = usedModel
	job.Status = model.StatusGenerated
	return nil
}

// apply runs a raster transform on the job's working image.
func apply(job *model.PageJob, fn func(*raster.Image) (*raster.Image, error)) error {
	if job.Image == nil {
		return ErrNoImage
	}
	img, err := fn(job.Image)
	if err != nil {
		return err
	}
	job.Image = img
	return nil
}
