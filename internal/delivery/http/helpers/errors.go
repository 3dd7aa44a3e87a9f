package helpers

import (
	"log/slog"
	"net/http"

	"fieldbooking/internal/domain"
)

// Error codes carried in APIError.Code. Each domain error kind has one.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInvalidState  = "invalid_state"
	ErrCodeUnavailable   = "unavailable"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object of the response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// retryAfterSeconds is sent with 503 responses for transient failures.
const retryAfterSeconds = "1"

// StatusFor maps an error's domain kind to an HTTP status and error code.
// Errors without a kind are internal errors.
func StatusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, ErrCodeBadRequest
	case domain.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case domain.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case domain.KindState:
		return http.StatusUnprocessableEntity, ErrCodeInvalidState
	case domain.KindTransient:
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	case domain.KindForbidden:
		return http.StatusForbidden, ErrCodeForbidden
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes err as an API error. Server-side failures are
// logged and their details are not exposed to the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", retryAfterSeconds)
			message = "service temporarily unavailable, retry the request"
		} else {
			message = "internal error"
		}
	}
	WriteJSONError(w, status, code, message)
}
