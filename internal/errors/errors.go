package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeRejected   ErrorType = "external_rejected"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeTimeout    ErrorType = "timeout"
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

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on type and code so predefined errors work as sentinels.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Detail returns the wrapped error message, or the error's own message when
// nothing is wrapped. It never includes the source location.
func (e *AppError) Detail() string {
	if e.Internal != nil {
		return e.Internal.Error()
	}
	return e.Message
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

func newAt(skip int, errorType ErrorType, code, message string, internal error) *AppError {
	_, file, line, _ := runtime.Caller(skip)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return newAt(2, errorType, code, message, nil)
}

// As is a shorthand for errors.As with *AppError.
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

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs err at a level chosen by its type.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if appErr, ok := As(err); ok {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", err.LogFields()...)
	case ErrorTypeNotFound:
		h.logger.InfoContext(ctx, "Not found", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeRejected, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// Predefined errors, compared with errors.Is.
var (
	ErrInvalidInput  = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = New(ErrorTypePermission, "UNAUTHORIZED", "Unauthorized access")
	ErrNoReadings    = New(ErrorTypeNotFound, "NO_READINGS", "No readings found for user")
	ErrUserNotFound  = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrDatabaseError = New(ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
	ErrTimeout       = New(ErrorTypeTimeout, "TIMEOUT", "Operation timed out")
	ErrRejected      = New(ErrorTypeRejected, "EXTERNAL_REJECTED", "External API returned no result")
)

func NewValidationError(message string) *AppError {
	return newAt(2, ErrorTypeValidation, "INVALID_INPUT", message, nil)
}

func NewDatabaseError(err error) *AppError {
	return newAt(2, ErrorTypeDatabase, "DB_ERROR", "Database operation failed", err)
}

func NewExternalAPIError(err error, api string) *AppError {
	return newAt(2, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api), err).
		WithContext("api", api)
}

func NewTimeoutError(err error, operation string) *AppError {
	return newAt(2, ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation), err).
		WithContext("operation", operation)
}

// NewRejectedError records a response the external service sent back
// without a usable result. payload is kept for diagnostics.
func NewRejectedError(api string, payload interface{}) *AppError {
	return newAt(2, ErrorTypeRejected, "EXTERNAL_REJECTED", fmt.Sprintf("%s returned no result", api), nil).
		WithContext("api", api).
		WithContext("payload", payload)
}

func NewInternalError(err error) *AppError {
	return newAt(2, ErrorTypeInternal, "INTERNAL", "Internal server error", err)
}
