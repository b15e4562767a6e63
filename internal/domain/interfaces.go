package domain

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mocks/domain_mock.go -package=mocks

// AdviceStream is a finite, non-restartable sequence of text chunks.
// Next returns io.EOF once the stream is exhausted. Close abandons the
// request; it is safe to call more than once.
type AdviceStream interface {
	Next() (string, error)
	Close() error
}

// CalorieEstimate is the structured reply of the calorie-estimate collaborator.
type CalorieEstimate struct {
	BurnedCalories int `json:"burnedCalories"`
}

// AIProvider is a hosted generative-AI backend
type AIProvider interface {
	Name() string
	StreamAdvice(ctx context.Context, prompt string) (AdviceStream, error)
	EstimateCalories(ctx context.Context, prompt string) (*CalorieEstimate, error)
}

// BotService handles telegram bot operations
type BotService interface {
	Start(ctx context.Context) error
	Stop()
}
