// Package generate produces source images through an image generation API.
//
// The package is split into small pieces so each can be tested alone:
//   - Generator: one request, one image, typed failures
//   - OpenAIGenerator: the Generator backed by the OpenAI Images API
//   - Retrier: a bounded retry loop with an injectable backoff and sleep
//   - Service: model fallback, rate limiting, retries and saving to disk
//
// # Failures
//
// A Generator reports ErrAccessDenied when the account may not use the model,
// ErrRateLimited when the API throttles, and ErrMalformedResponse when the
// reply carries no usable image. The Retrier retries everything except access
// denial and cancellation; once attempts are exhausted the error wraps
// ErrGenerationFailed together with the last cause.
//
// # Model fallback
//
// With the model set to "auto" the Service asks for gpt-image-1 first and
// switches to dall-e-3 when access is denied. The denial is remembered for
// the rest of the run, so later images go straight to the fallback.
package generate
