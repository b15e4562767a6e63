package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/vladimiradmaev/reprocket/internal/errors"
)

func TestIsPostgresQuotaError(t *testing.T) {
	assert.True(t, isPostgresQuotaError(&pgconn.PgError{Code: "53100"}))
	assert.True(t, isPostgresQuotaError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "54000"})))
	assert.False(t, isPostgresQuotaError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isPostgresQuotaError(errors.New("disk full")))
}

func TestPostgresBackend_MapError(t *testing.T) {
	b := &PostgresBackend{namespace: "reprocket"}

	assert.NoError(t, b.mapError(nil, "k"))

	err := b.mapError(&pgconn.PgError{Code: "53100", Message: "could not extend file"}, "repRocketPhotos")
	assert.True(t, errors.Is(err, apperrors.ErrStorageQuotaExceeded))

	err = b.mapError(errors.New("connection reset"), "repRocketPhotos")
	appErr, ok := apperrors.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeStorage, appErr.Type)
	assert.Equal(t, "repRocketPhotos", appErr.Context["key"])
}

func TestChangeChannel(t *testing.T) {
	assert.Equal(t, "reprocket_changes", ChangeChannel("reprocket"))
}
