package apierr

import (
	"errors"
	"net/http"

	"github.com/tabsplit/tabsplit/internal/api/response"
	"github.com/tabsplit/tabsplit/internal/model"
)

// Stable error codes carried in the response envelope
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidState    = "INVALID_STATE"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status with an envelope error code
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements the error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError maps an error to the failure envelope and writes it
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.Error(w, he.status, he.code, he.message)
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, "Session not found"}
	case errors.Is(err, model.ErrBillNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, "Bill not found"}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, "Participant not found"}
	case errors.Is(err, model.ErrReceiptNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, "Receipt not found"}

	// Invalid state transitions
	case errors.Is(err, model.ErrSessionCompleted):
		return &httpError{http.StatusConflict, CodeInvalidState, "Session is completed and cannot be modified"}
	case errors.Is(err, model.ErrSessionNotCalculated):
		return &httpError{http.StatusConflict, CodeInvalidState, "Session must be calculated before finalizing"}
	case errors.Is(err, model.ErrNoParticipants):
		return &httpError{http.StatusConflict, CodeInvalidState, "Session has no participants to split between"}

	// Validation
	case errors.Is(err, model.ErrEmptyItemName),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrEmptyParticipantName):
		return &httpError{http.StatusBadRequest, CodeValidationError, err.Error()}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// NewInvalidRequestError creates a malformed-request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, CodeRateLimited, "Too many requests"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}
