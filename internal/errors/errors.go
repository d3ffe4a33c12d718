package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Engine error taxonomy. These are expected control-flow outcomes that
// services return as values; anything else is treated as a store failure.
var (
	ErrNotFound      = errors.New("user not found")
	ErrQuotaExceeded = errors.New("daily like quota exhausted")
	ErrAlreadyLiked  = errors.New("already liked this user")
	ErrTimeout       = errors.New("feed computation timed out")
)

// APIError is the JSON shape errors take on the wire.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidInput creates a 400-status APIError for request validation failures.
func InvalidInput(msg string) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: msg, Status: http.StatusBadRequest}
}

// Unauthorized creates a 401-status APIError.
func Unauthorized(msg string) *APIError {
	return &APIError{Code: "UNAUTHORIZED", Message: msg, Status: http.StatusUnauthorized}
}

// Map converts engine/infra errors into an APIError.
// Keeps handlers clean by centralizing error mapping.
//
// Quota exhaustion and duplicate likes stay distinguishable, actionable
// messages; not-found and store failures collapse to generic messages for
// the caller while the original error stays available for logging.
func Map(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "user not found", Status: http.StatusNotFound}

	case errors.Is(err, ErrQuotaExceeded):
		return &APIError{Code: "QUOTA_EXCEEDED", Message: "daily like quota exhausted, upgrade to premium for unlimited likes", Status: http.StatusTooManyRequests}

	case errors.Is(err, ErrAlreadyLiked):
		return &APIError{Code: "ALREADY_LIKED", Message: "you already liked this user", Status: http.StatusConflict}

	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Code: "TIMEOUT", Message: "request timed out", Status: http.StatusGatewayTimeout}

	case errors.Is(err, context.Canceled):
		return &APIError{Code: "CANCELED", Message: "request was canceled", Status: 499}

	default:
		// opaque store failure: generic to the caller, logged upstream
		return &APIError{Code: "INTERNAL", Message: "something went wrong", Status: http.StatusInternalServerError}
	}
}
