package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tollpass/internal/auth"
	"tollpass/internal/domain"
	"tollpass/internal/routing"
	"tollpass/internal/service"
)

// BookingHandler handles HTTP requests for bookings and quotes.
type BookingHandler struct {
	bookingService     *service.BookingService
	eligibilityService *service.EligibilityService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, eligibilityService *service.EligibilityService) *BookingHandler {
	return &BookingHandler{
		bookingService:     bookingService,
		eligibilityService: eligibilityService,
	}
}

// BookingResponse is the HTTP response for booking data.
type BookingResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	TollBoothID string `json:"toll_booth_id"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	DistanceKm  string `json:"distance_km,omitempty"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		TollBoothID: b.TollBoothID,
		BookingDate: b.BookingDate.Format("2006-01-02"),
		TimeSlot:    b.TimeSlot,
		Amount:      b.Amount.StringFixed(2),
		Status:      string(b.Status),
	}
	if b.Status != domain.BookingStatusFastTag {
		resp.DistanceKm = b.DistanceKm.StringFixed(2)
	}
	return resp
}

// CandidateResponse is one quoted toll booth in a quote response.
type CandidateResponse struct {
	TollBoothID     string  `json:"toll_booth_id"`
	Name            string  `json:"name"`
	Highway         string  `json:"highway"`
	DistanceKm      string  `json:"distance_km,omitempty"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	Verdict         string  `json:"verdict,omitempty"`
	TimeSlot        string  `json:"time_slot,omitempty"`
	Fee             string  `json:"fee"`
	Unavailable     bool    `json:"unavailable,omitempty"`
}

// Quote handles GET /v1/bookings/quote?lat=..&lng=..
func (h *BookingHandler) Quote(c *gin.Context) {
	origin, ok := parseOrigin(c, c.Query("lat"), c.Query("lng"))
	if !ok {
		return
	}

	candidates, err := h.eligibilityService.QuoteCandidates(c.Request.Context(), origin)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		cr := CandidateResponse{
			TollBoothID: cand.Booth.ID,
			Name:        cand.Booth.Name,
			Highway:     cand.Booth.Highway,
			Fee:         cand.Fee.StringFixed(2),
			Unavailable: cand.Unavailable,
		}
		if !cand.Unavailable {
			cr.DistanceKm = cand.DistanceKm.StringFixed(2)
			cr.DurationMinutes = cand.DurationMinutes
			cr.Verdict = string(cand.Verdict)
			cr.TimeSlot = cand.TimeSlot
		}
		response = append(response, cr)
	}

	respondJSON(c, http.StatusOK, response)
}

// CreateBookingRequest is the HTTP request body for an express booking.
type CreateBookingRequest struct {
	TollBoothID string  `json:"toll_booth_id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), sess, service.CreateBookingRequest{
		TollBoothID: req.TollBoothID,
		Origin:      routing.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// CreateFastTagRequest is the HTTP request body for a FastTag booking.
type CreateFastTagRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreateFastTag handles POST /v1/bookings/fasttag
func (h *BookingHandler) CreateFastTag(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	var req CreateFastTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateFastTag(c.Request.Context(), sess, service.CreateFastTagRequest{
		Origin: routing.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// List handles GET /v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	// Opportunistic sweep so a listing never shows a booking as confirmed
	// after its window closed. Failures don't block the read.
	if _, err := h.bookingService.SweepExpired(c.Request.Context(), h.bookingService.Now()); err != nil {
		log.Printf("opportunistic sweep: %v", err)
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), sess)
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

// GetByID handles GET /v1/bookings/:id
func (h *BookingHandler) GetByID(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	booking, err := h.bookingService.GetBooking(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	booking, err := h.bookingService.Cancel(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// parseOrigin parses lat/lng query parameters, responding 400 on failure.
func parseOrigin(c *gin.Context, latStr, lngStr string) (routing.Point, bool) {
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng query parameters are required"})
		return routing.Point{}, false
	}
	return routing.Point{Lat: lat, Lng: lng}, true
}
