package generate

import "context"

// Well-known model names.
const (
	// ModelAuto picks PreferredModel and falls back to FallbackModel.
	ModelAuto = "auto"
	// PreferredModel is tried first in auto mode.
	PreferredModel = "gpt-image-1"
	// FallbackModel is used when PreferredModel is denied.
	FallbackModel = "dall-e-3"
)

// Request describes one image to generate.
type Request struct {
	Prompt string
	// Size is "WIDTHxHEIGHT" in a form the API accepts, e.g. "1024x1024".
	Size string
	// Model is a concrete model name, never ModelAuto.
	Model string
}

// Generator produces one encoded image (PNG or JPEG bytes) per request.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) ([]byte, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

// StylePrompt is prepended to every page subject so the model draws clean
// printable line art instead of shaded illustrations.
const StylePrompt = "Black-and-white line art coloring page. Clean, thick outlines, no shading, no gray. " +
	"High contrast, white background, centered subject, kid-friendly, printable. "

// PagePrompt builds the full prompt for a coloring page subject.
func PagePrompt(subject string) string {
	return StylePrompt + "Subject: " + subject
}
