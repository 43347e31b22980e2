package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tollpass/internal/repository"
	"tollpass/internal/service"
)

// ErrorResponse represents an error response. Reason carries a stable
// machine-readable code for the eligibility and conflict cases the UI
// branches on; Error is the human-readable message.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error(), Reason: reasonCode(err)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidBoothID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidBoothFee):
		return http.StatusBadRequest

	// Eligibility rejections - the request was well-formed but the policy
	// says no. These are pre-flight: nothing was mutated.
	case errors.Is(err, service.ErrTooClose),
		errors.Is(err, service.ErrTooFar),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyAdjudicated),
		errors.Is(err, service.ErrNotAdjudicable),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAdminOnly):
		return http.StatusForbidden

	// Data errors surface loudly.
	case errors.Is(err, service.ErrBadTimeSlot):
		return http.StatusInternalServerError

	// Service unavailable - fail closed, retryable by re-quoting.
	case errors.Is(err, service.ErrDistanceUnavailable),
		errors.Is(err, service.ErrNoBoothAvailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// reasonCode maps an error onto its stable reason code, if it has one.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, service.ErrTooClose):
		return "too-close"
	case errors.Is(err, service.ErrTooFar):
		return "too-far"
	case errors.Is(err, service.ErrInsufficientBalance):
		return "insufficient-balance"
	case errors.Is(err, service.ErrDistanceUnavailable):
		return "distance-unavailable"
	case errors.Is(err, service.ErrAlreadyAdjudicated):
		return "already-adjudicated"
	case errors.Is(err, service.ErrNotCancellable):
		return "not-cancellable"
	default:
		return ""
	}
}
