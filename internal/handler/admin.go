package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tollpass/internal/auth"
	"tollpass/internal/service"
)

// AdminHandler handles HTTP requests for booth-side reconciliation.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Pending handles GET /v1/admin/bookings/pending
func (h *AdminHandler) Pending(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	bookings, err := h.adminService.PendingAdjudications(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// Refund handles POST /v1/admin/bookings/:id/refund
func (h *AdminHandler) Refund(c *gin.Context) {
	h.decide(c, h.adminService.Refund, "refund issued")
}

// NoRefund handles POST /v1/admin/bookings/:id/no-refund
func (h *AdminHandler) NoRefund(c *gin.Context) {
	h.decide(c, h.adminService.NoRefund, "no refund issued")
}

// Fine handles POST /v1/admin/bookings/:id/fine
func (h *AdminHandler) Fine(c *gin.Context) {
	h.decide(c, h.adminService.Fine, "fine applied")
}

// NoFine handles POST /v1/admin/bookings/:id/no-fine
func (h *AdminHandler) NoFine(c *gin.Context) {
	h.decide(c, h.adminService.NoFine, "no fine applied")
}

func (h *AdminHandler) decide(c *gin.Context, fn func(ctx context.Context, sess auth.Session, bookingID string) error, message string) {
	sess, _ := auth.FromContext(c)

	if err := fn(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": message})
}
