// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInternal           = errors.New("internal error")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("token invalid")
)

type AppError struct {
	Code    string
	Message string
	Status  int
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		cause:   err,
	}
}

func UnauthorizedError(message string) *AppError {
	return NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError("FORBIDDEN", message, http.StatusForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		"NOT_FOUND",
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
	)
}

func ConflictError(message string) *AppError {
	return NewAppError("CONFLICT", message, http.StatusConflict)
}

func RateLimitedError(message string) *AppError {
	return NewAppError("RATE_LIMITED", message, http.StatusTooManyRequests)
}

func PreconditionFailedError(message string) *AppError {
	return NewAppError(
		"PRECONDITION_FAILED",
		message,
		http.StatusPreconditionFailed,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		"TOKEN_EXPIRED",
		"access token has expired",
		http.StatusUnauthorized,
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		"TOKEN_REVOKED",
		"access token has been revoked",
		http.StatusUnauthorized,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		"TOKEN_INVALID",
		"access token is invalid",
		http.StatusUnauthorized,
	)
}

// FromError maps sentinel errors to their stable wire representation.
// Unrecognized errors become an opaque 500 so internals never leak.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError("resource").WithCause(err)
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("authentication required").WithCause(err)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("insufficient permissions").WithCause(err)
	case errors.Is(err, ErrRateLimited):
		return RateLimitedError("rate limit exceeded").WithCause(err)
	case errors.Is(err, ErrPreconditionFailed):
		return PreconditionFailedError("precondition failed").WithCause(err)
	case errors.Is(err, ErrDuplicateKey):
		return ConflictError("resource already exists").WithCause(err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(
			"INVALID_INPUT",
			"invalid input",
			http.StatusBadRequest,
		).WithCause(err)
	default:
		return NewAppError(
			"INTERNAL_ERROR",
			"an internal error occurred",
			http.StatusInternalServerError,
		).WithCause(err)
	}
}
