package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vladimiradmaev/reprocket/internal/domain"
	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
	"github.com/vladimiradmaev/reprocket/internal/metrics"
	"github.com/vladimiradmaev/reprocket/internal/mocks"
)

func namedProvider(ctrl *gomock.Controller, name string) *mocks.MockAIProvider {
	p := mocks.NewMockAIProvider(ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	return p
}

func TestAIService_StreamAdviceUsesFirstProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := namedProvider(ctrl, "gemini")
	fallback := namedProvider(ctrl, "openai")
	stream := mocks.NewMockAdviceStream(ctrl)

	primary.EXPECT().StreamAdvice(gomock.Any(), "Alternatives to squats?").Return(stream, nil)
	gomock.InOrder(
		stream.EXPECT().Next().Return("Try ", nil),
		stream.EXPECT().Next().Return("lunges.", nil),
		stream.EXPECT().Next().Return("", io.EOF),
	)
	stream.EXPECT().Close().Return(nil).Times(1)

	m := metrics.NewTestManager()
	svc := NewAIService(m, primary, fallback)
	out, err := svc.StreamAdvice(context.Background(), "Alternatives to squats?")
	require.NoError(t, err)

	text, err := Collect(out)
	require.NoError(t, err)
	assert.Equal(t, "Try lunges.", text)
	assert.NoError(t, out.Close(), "second close is a no-op")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterAIRequests.WithLabelValues("gemini", "advice", "ok")))
}

func TestAIService_StreamAdviceFallsBackBeforeFirstChunk(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := namedProvider(ctrl, "gemini")
	fallback := namedProvider(ctrl, "openai")
	broken := mocks.NewMockAdviceStream(ctrl)
	working := mocks.NewMockAdviceStream(ctrl)

	primary.EXPECT().StreamAdvice(gomock.Any(), gomock.Any()).Return(broken, nil)
	broken.EXPECT().Next().Return("", errors.New("429 quota"))
	broken.EXPECT().Close().Return(nil)

	fallback.EXPECT().StreamAdvice(gomock.Any(), gomock.Any()).Return(working, nil)
	gomock.InOrder(
		working.EXPECT().Next().Return("Rest well.", nil),
		working.EXPECT().Next().Return("", io.EOF),
	)
	working.EXPECT().Close().Return(nil)

	m := metrics.NewTestManager()
	out, err := NewAIService(m, primary, fallback).StreamAdvice(context.Background(), "Tips?")
	require.NoError(t, err)

	text, err := Collect(out)
	require.NoError(t, err)
	assert.Equal(t, "Rest well.", text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterAIRequests.WithLabelValues("gemini", "advice", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterAIRequests.WithLabelValues("openai", "advice", "ok")))
}

func TestAIService_MidStreamFailureSurfacesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := namedProvider(ctrl, "gemini")
	fallback := namedProvider(ctrl, "openai")
	stream := mocks.NewMockAdviceStream(ctrl)

	primary.EXPECT().StreamAdvice(gomock.Any(), gomock.Any()).Return(stream, nil)
	gomock.InOrder(
		stream.EXPECT().Next().Return("Keep your back ", nil),
		stream.EXPECT().Next().Return("", errors.New("connection reset")),
	)
	stream.EXPECT().Close().Return(nil)

	out, err := NewAIService(metrics.NewTestManager(), primary, fallback).StreamAdvice(context.Background(), "Deadlift form?")
	require.NoError(t, err)

	chunk, err := out.Next()
	require.NoError(t, err)
	assert.Equal(t, "Keep your back ", chunk)

	_, err = out.Next()
	assert.True(t, errors.Is(err, apperrors.ErrAICollaboratorFailure))

	_, err = out.Next()
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, out.Close())
}

func TestAIService_StreamAdviceAllProvidersFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := namedProvider(ctrl, "gemini")
	fallback := namedProvider(ctrl, "openai")

	primary.EXPECT().StreamAdvice(gomock.Any(), gomock.Any()).Return(nil, errors.New("invalid key"))
	fallback.EXPECT().StreamAdvice(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := NewAIService(metrics.NewTestManager(), primary, fallback).StreamAdvice(context.Background(), "Help")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAICollaboratorFailure))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "openai", appErr.Context["provider"])
}

func TestAIService_NoProvidersAndEmptyPrompt(t *testing.T) {
	svc := NewAIService(metrics.NewTestManager())
	assert.False(t, svc.Enabled())

	_, err := svc.StreamAdvice(context.Background(), "Help")
	assert.True(t, errors.Is(err, apperrors.ErrAICollaboratorFailure))

	_, err = svc.StreamAdvice(context.Background(), "   ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.EstimateCalories(context.Background(), "Workout")
	assert.True(t, errors.Is(err, apperrors.ErrAICollaboratorFailure))
}

func TestAIService_EstimateCaloriesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := namedProvider(ctrl, "gemini")
	fallback := namedProvider(ctrl, "openai")

	primary.EXPECT().EstimateCalories(gomock.Any(), "prompt").Return(&domain.CalorieEstimate{BurnedCalories: -5}, nil)
	fallback.EXPECT().EstimateCalories(gomock.Any(), "prompt").Return(&domain.CalorieEstimate{BurnedCalories: 420}, nil)

	est, err := NewAIService(metrics.NewTestManager(), primary, fallback).EstimateCalories(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 420, est.BurnedCalories)
}

func TestParseCalorieEstimate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "plain", in: `{"burnedCalories": 350}`, want: 350},
		{name: "fenced", in: "```json\n{\"burnedCalories\": 512.6}\n```", want: 513},
		{name: "no json", in: "about 300 kcal", wantErr: true},
		{name: "missing key", in: `{"calories": 300}`, wantErr: true},
		{name: "negative", in: `{"burnedCalories": -1}`, wantErr: true},
		{name: "wrong type", in: `{"burnedCalories": "lots"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCalorieEstimate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.BurnedCalories)
		})
	}
}
