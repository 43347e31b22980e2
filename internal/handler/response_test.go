package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"tollpass/internal/repository"
	"tollpass/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrInvalidLocation, http.StatusBadRequest},
		{service.ErrTooClose, http.StatusUnprocessableEntity},
		{service.ErrTooFar, http.StatusUnprocessableEntity},
		{service.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{service.ErrAlreadyAdjudicated, http.StatusConflict},
		{service.ErrNotCancellable, http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrAdminOnly, http.StatusForbidden},
		{service.ErrDistanceUnavailable, http.StatusServiceUnavailable},
		{service.ErrNoBoothAvailable, http.StatusServiceUnavailable},
		{service.ErrBadTimeSlot, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
		// Wrapped errors map the same as their sentinel.
		{fmt.Errorf("%w: OSRM timeout", service.ErrDistanceUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("mapErrorToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestReasonCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrTooClose, "too-close"},
		{service.ErrTooFar, "too-far"},
		{service.ErrInsufficientBalance, "insufficient-balance"},
		{service.ErrDistanceUnavailable, "distance-unavailable"},
		{service.ErrAlreadyAdjudicated, "already-adjudicated"},
		{service.ErrNotCancellable, "not-cancellable"},
		{errors.New("anything else"), ""},
	}

	for _, tt := range tests {
		if got := reasonCode(tt.err); got != tt.want {
			t.Errorf("reasonCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
