package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("resource already exists")
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError attaches a client-facing message to one of the error kinds above.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with an explicit HTTP status.
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap tags message with an error kind; the status comes from the kind.
func Wrap(kind error, message string) *AppError {
	return &AppError{Message: message, Err: kind}
}

func Validation(message string) *AppError { return Wrap(ErrValidation, message) }
func Conflict(message string) *AppError   { return Wrap(ErrConflict, message) }
func NotFound(message string) *AppError   { return Wrap(ErrNotFound, message) }
func Unauthorized(message string) *AppError {
	return Wrap(ErrUnauthorized, message)
}
func Forbidden(message string) *AppError { return Wrap(ErrForbidden, message) }

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
