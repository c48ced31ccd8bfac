package generate

import "errors"

var (
	// ErrGenerationFailed is returned once every attempt for an image failed.
	ErrGenerationFailed = errors.New("image generation failed")

	// ErrAccessDenied is returned when the API refuses the model for this account.
	ErrAccessDenied = errors.New("access to image model denied")

	// ErrMalformedResponse is returned when a response carries no decodable image.
	ErrMalformedResponse = errors.New("malformed image response")

	// ErrRateLimited is returned when the API throttles the request.
	ErrRateLimited = errors.New("image API rate limited")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY: set it in the environment or a .env file")
)
