package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies an AppError
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeQuota         ErrorType = "quota_exceeded"
	ErrorTypeMalformedData ErrorType = "malformed_data"
	ErrorTypeInvalidImport ErrorType = "invalid_import"
	ErrorTypeExternal      ErrorType = "external_api"
	ErrorTypeInternal      ErrorType = "internal"
)

const (
	CodeQuotaExceeded = "STORAGE_QUOTA_EXCEEDED"
	CodeMalformedData = "MALFORMED_PERSISTED_DATA"
	CodeInvalidImport = "INVALID_IMPORT_FILE"
	CodeAIFailure     = "AI_FAILURE"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on Type and Code so sentinels work with errors.Is
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// UserMessage is the text safe to show to the person using the tracker.
func (e *AppError) UserMessage() string {
	switch e.Type {
	case ErrorTypeQuota:
		return "Storage is full. Export a backup and delete old photos or notes to free space."
	case ErrorTypeInvalidImport:
		return "Import failed: " + e.Message
	case ErrorTypeExternal:
		return "The AI coach is unavailable right now. Please try again later."
	case ErrorTypeValidation, ErrorTypeNotFound:
		return e.Message
	default:
		return "Something went wrong. Please try again."
	}
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(),
		Context:  make(map[string]interface{}),
	}
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", file, line)
}

// As is a shortcut for errors.As with an *AppError target.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if appErr, ok := As(err); ok {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidImport:
		h.logger.WarnContext(ctx, "Rejected request", err.LogFields()...)
	case ErrorTypeMalformedData:
		h.logger.WarnContext(ctx, "Persisted data replaced with default", err.LogFields()...)
	case ErrorTypeQuota:
		h.logger.ErrorContext(ctx, "Storage quota exceeded", err.LogFields()...)
	case ErrorTypeStorage, ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrInvalidInput           = New(ErrorTypeValidation, "VALIDATION", "Invalid input provided")
	ErrNotFound               = New(ErrorTypeNotFound, "NOT_FOUND", "Record not found")
	ErrStorageQuotaExceeded   = New(ErrorTypeQuota, CodeQuotaExceeded, "Storage quota exceeded")
	ErrMalformedPersistedData = New(ErrorTypeMalformedData, CodeMalformedData, "Persisted data could not be parsed")
	ErrInvalidImportFile      = New(ErrorTypeInvalidImport, CodeInvalidImport, "Invalid backup file")
	ErrAICollaboratorFailure  = New(ErrorTypeExternal, CodeAIFailure, "AI request failed")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewNotFoundError(what string) *AppError {
	return New(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", what)).
		WithContext("entity", what)
}

func NewStorageError(err error, key string) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE", "Storage operation failed").
		WithContext("key", key)
}

func NewQuotaExceededError(err error, key string) *AppError {
	return Wrap(err, ErrorTypeQuota, CodeQuotaExceeded, "Storage quota exceeded").
		WithContext("key", key)
}

func NewMalformedDataError(err error, key string) *AppError {
	return Wrap(err, ErrorTypeMalformedData, CodeMalformedData, "Persisted data could not be parsed").
		WithContext("key", key)
}

func NewInvalidImportError(message string, err error) *AppError {
	return Wrap(err, ErrorTypeInvalidImport, CodeInvalidImport, message)
}

func NewAIFailure(err error, provider string) *AppError {
	return Wrap(err, ErrorTypeExternal, CodeAIFailure, fmt.Sprintf("%s request failed", provider)).
		WithContext("provider", provider)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
