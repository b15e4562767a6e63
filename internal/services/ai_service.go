package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/logger"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
)

const (
	kindAdvice   = "advice"
	kindCalories = "calories"
)

var errNoProvider = errors.New("no AI provider configured")

// AIService sends requests to the configured providers in order, falling
// back to the next one when a provider fails before producing output.
type AIService struct {
	providers []domain.AIProvider
	metrics   *metrics.Manager
}

func NewAIService(m *metrics.Manager, providers ...domain.AIProvider) *AIService {
	return &AIService{providers: providers, metrics: m}
}

func (s *AIService) Enabled() bool {
	return len(s.providers) > 0
}

func (s *AIService) observe(provider, kind string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.CounterAIRequests.WithLabelValues(provider, kind, status).Inc()
	s.metrics.HistAIDuration.WithLabelValues(provider, kind).Observe(time.Since(start).Seconds())
}

// StreamAdvice starts a coaching reply. A provider counts as failed only
// if it errors before its first chunk; after that the stream is committed
// and a later error is reported once through Next as an AI failure.
func (s *AIService) StreamAdvice(ctx context.Context, prompt string) (domain.AdviceStream, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("prompt is empty")
	}

	lastErr, lastProvider := errNoProvider, "ai"
	for _, p := range s.providers {
		start := time.Now()
		stream, err := p.StreamAdvice(ctx, prompt)
		if err == nil {
			var first string
			first, err = stream.Next()
			if err == nil || errors.Is(err, io.EOF) {
				s.observe(p.Name(), kindAdvice, start, nil)
				return &adviceStream{
					inner:    stream,
					provider: p.Name(),
					pending:  first,
					eof:      err != nil,
				}, nil
			}
			stream.Close()
		}

		s.observe(p.Name(), kindAdvice, start, err)
		logger.Warn("AI provider failed, trying next", "provider", p.Name(), "kind", kindAdvice, "error", err)
		lastErr, lastProvider = err, p.Name()
	}
	return nil, apperrors.NewAIFailure(lastErr, lastProvider)
}

// EstimateCalories asks each provider in turn for a burned-calorie estimate.
func (s *AIService) EstimateCalories(ctx context.Context, prompt string) (*domain.CalorieEstimate, error) {
	lastErr, lastProvider := errNoProvider, "ai"
	for _, p := range s.providers {
		start := time.Now()
		est, err := p.EstimateCalories(ctx, prompt)
		if err == nil && est == nil {
			err = errors.New("empty estimate")
		}
		if err == nil && est.BurnedCalories < 0 {
			err = errors.New("negative estimate")
		}
		s.observe(p.Name(), kindCalories, start, err)
		if err == nil {
			return est, nil
		}
		logger.Warn("AI provider failed, trying next", "provider", p.Name(), "kind", kindCalories, "error", err)
		lastErr, lastProvider = err, p.Name()
	}
	return nil, apperrors.NewAIFailure(lastErr, lastProvider)
}

// adviceStream replays the chunk read while choosing a provider and turns
// the first mid-stream error into an AI failure. After that error or the
// end of the stream, Next keeps returning io.EOF.
type adviceStream struct {
	inner    domain.AdviceStream
	provider string

	mu      sync.Mutex
	pending string
	eof     bool
	closed  bool
}

func (a *adviceStream) Next() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending != "" {
		chunk := a.pending
		a.pending = ""
		return chunk, nil
	}
	if a.eof || a.closed {
		return "", io.EOF
	}

	chunk, err := a.inner.Next()
	switch {
	case err == nil:
		return chunk, nil
	case errors.Is(err, io.EOF):
		a.eof = true
		return "", io.EOF
	default:
		a.eof = true
		logger.Error("AI stream failed mid-response", "provider", a.provider, "error", err)
		return "", apperrors.NewAIFailure(err, a.provider)
	}
}

func (a *adviceStream) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.inner.Close()
}

// Collect drains stream into a single string and closes it. On error the
// text received so far is returned alongside it.
func Collect(stream domain.AdviceStream) (string, error) {
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
}
