package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesTypeAndCode(t *testing.T) {
	err := NewQuotaExceededError(errors.New("disk full"), "repRocketData")
	assert.True(t, errors.Is(err, ErrStorageQuotaExceeded))
	assert.False(t, errors.Is(err, ErrInvalidImportFile))

	wrapped := fmt.Errorf("failed to save day: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStorageQuotaExceeded))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "repRocketData", appErr.Context["key"])
	assert.Contains(t, appErr.Source, "errors_test.go")
}

func TestAppError_UserMessage(t *testing.T) {
	assert.Equal(t, "Import failed: missing settings", NewInvalidImportError("missing settings", nil).UserMessage())
	assert.Contains(t, NewAIFailure(errors.New("boom"), "gemini").UserMessage(), "AI coach")
	assert.Equal(t, "calorie goal must be positive", NewValidationError("calorie goal must be positive").UserMessage())
	assert.Contains(t, ErrStorageQuotaExceeded.UserMessage(), "Export a backup")
}

func TestHandler_LogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), nil)
	assert.Empty(t, buf.String())

	h.Handle(context.Background(), NewValidationError("bad"))
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	err := h.LogAndReturn(context.Background(), NewQuotaExceededError(errors.New("full"), "k"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), CodeQuotaExceeded)

	buf.Reset()
	h.Handle(context.Background(), errors.New("plain"))
	assert.Contains(t, buf.String(), "Unhandled error")
}
