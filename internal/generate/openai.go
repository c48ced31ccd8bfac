package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ImageAPI is the subset of the OpenAI client used here. *openai.ImageService
// satisfies it; tests substitute a fake.
type ImageAPI interface {
	Generate(ctx context.Context, body openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
}

// OpenAIGenerator implements Generator with the OpenAI Images API.
type OpenAIGenerator struct {
	api ImageAPI
}

// NewOpenAIGenerator creates a generator authenticated with apiKey.
// The SDK's own retries are disabled; Retrier owns the retry policy.
func NewOpenAIGenerator(apiKey string, opts ...option.RequestOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIGenerator{api: &client.Images}, nil
}

// NewOpenAIGeneratorWithAPI wraps an existing ImageAPI.
func NewOpenAIGeneratorWithAPI(api ImageAPI) *OpenAIGenerator {
	return &OpenAIGenerator{api: api}
}

// Generate requests one image and decodes the base64 payload.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(req.Model),
		Size:   openai.ImageGenerateParamsSize(req.Size),
	}
	// gpt-image models always answer in base64 and reject the parameter.
	if strings.HasPrefix(req.Model, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := g.api.Generate(ctx, params)
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: no b64_json image in response", ErrMalformedResponse)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return data, nil
}

// classify maps API errors onto the package sentinels, keeping the cause.
func classify(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.StatusCode == http.StatusForbidden, apiErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case isAccessMessage(err.Error()):
		// Unverified organizations get a 400 with a verification message.
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}

func isAccessMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, needle := range []string{"must be verified", "permission", "does not have access"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
