package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/coloringbook/internal/export"
)

// Service generates images with model fallback, throttling and retries, and
// saves page sources into a directory. It is safe for concurrent use.
type Service struct {
	generator Generator
	retrier   *Retrier
	limiter   *rate.Limiter
	logger    *slog.Logger
	model     string
	size      string
	dir       string
	debug     bool

	mu     sync.Mutex
	denied map[string]bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRetrier replaces the default retry policy.
func WithRetrier(r *Retrier) ServiceOption {
	return func(s *Service) {
		s.retrier = r
	}
}

// WithRequestsPerMinute throttles API calls. 0 disables throttling.
func WithRequestsPerMinute(rpm int) ServiceOption {
	return func(s *Service) {
		if rpm <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	}
}

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDebug logs the full failure of every attempt at debug level.
func WithDebug(debug bool) ServiceOption {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates a Service that asks for images of the given model and
// size and writes page sources into dir.
func NewService(generator Generator, model, size, dir string, opts ...ServiceOption) *Service {
	s := &Service{
		generator: generator,
		retrier:   DefaultRetrier(),
		limiter:   rate.NewLimiter(rate.Inf, 1),
		logger:    slog.Default(),
		model:     model,
		size:      size,
		dir:       dir,
		denied:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// candidates returns the models to try, in order, for the configured model.
func (s *Service) candidates(model string) []string {
	if model != ModelAuto {
		return []string{model}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denied[PreferredModel] {
		return []string{FallbackModel}
	}
	return []string{PreferredModel, FallbackModel}
}

func (s *Service) markDenied(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied[model] = true
}

// GenerateImage returns one image for prompt and the model that produced it.
// An empty model uses the service default.
func (s *Service) GenerateImage(ctx context.Context, prompt, size, model string) ([]byte, string, error) {
	if model == "" {
		model = s.model
	}
	if size == "" {
		size = s.size
	}

	var lastErr error
	for _, m := range s.candidates(model) {
		data, err := s.generateWith(ctx, Request{Prompt: prompt, Size: size, Model: m})
		if err == nil {
			return data, m, nil
		}
		lastErr = err
		if !errors.Is(err, ErrAccessDenied) {
			return nil, "", err
		}
		if model != ModelAuto {
			return nil, "", fmt.Errorf("%w: model %s: %w", ErrGenerationFailed, m, err)
		}
		s.markDenied(m)
		s.logger.Warn("model access denied, falling back", "model", m)
	}
	// Every candidate refused access.
	return nil, "", fmt.Errorf("%w: no usable model: %w", ErrGenerationFailed, lastErr)
}

func (s *Service) generateWith(ctx context.Context, req Request) ([]byte, error) {
	var data []byte
	retrier := *s.retrier
	retrier.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.logger.Warn("image generation attempt failed",
			"model", req.Model, "attempt", attempt, "retry_in", delay, "reason", shortReason(err))
		if s.debug {
			s.logger.Debug("image generation failure detail", "model", req.Model, "error", err.Error())
		}
	}
	err := retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		data, err = s.generator.Generate(ctx, req)
		return err
	})
	if err != nil && s.debug {
		s.logger.Debug("image generation gave up", "model", req.Model, "error", err.Error())
	}
	return data, err
}

// GenerateSource generates page index for subject and saves it into the
// service directory. It returns the saved path and the model used.
func (s *Service) GenerateSource(ctx context.Context, subject string, index int) (string, string, error) {
	data, model, err := s.GenerateImage(ctx, PagePrompt(subject), "", "")
	if err != nil {
		return "", "", err
	}
	path := filepath.Join(s.dir, FileName(subject, index))
	if err := export.WriteBytesAtomic(path, data); err != nil {
		return "", "", fmt.Errorf("failed to save generated image: %w", err)
	}
	s.logger.Debug("saved generated image", "path", path, "model", model)
	return path, model, nil
}

// shortReason names the failure class for the warning line.
func shortReason(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate limited"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed response"
	default:
		return "request failed"
	}
}
