package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tollpass/internal/auth"
	"tollpass/internal/domain"
	"tollpass/internal/redis"
	"tollpass/internal/repository"
	"tollpass/internal/service"
)

// TollBoothHandler handles HTTP requests for toll booths.
type TollBoothHandler struct {
	boothRepo  repository.TollBoothRepository
	boothIndex redis.BoothIndexInterface
	cacheStore *redis.CacheStore
}

// NewTollBoothHandler creates a new TollBoothHandler.
func NewTollBoothHandler(boothRepo repository.TollBoothRepository, boothIndex redis.BoothIndexInterface, cacheStore *redis.CacheStore) *TollBoothHandler {
	return &TollBoothHandler{boothRepo: boothRepo, boothIndex: boothIndex, cacheStore: cacheStore}
}

// CreateTollBoothRequest is the HTTP request body for registering a booth.
type CreateTollBoothRequest struct {
	Name       string  `json:"name"`
	Highway    string  `json:"highway"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ExpressFee string  `json:"express_fee"`
}

// TollBoothResponse is the HTTP response for toll booth data.
type TollBoothResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Highway    string  `json:"highway"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ExpressFee string  `json:"express_fee"`
}

func toTollBoothResponse(booth *domain.TollBooth) TollBoothResponse {
	return TollBoothResponse{
		ID:         booth.ID,
		Name:       booth.Name,
		Highway:    booth.Highway,
		Lat:        booth.Lat,
		Lng:        booth.Lng,
		ExpressFee: booth.ExpressFee.StringFixed(2),
	}
}

// Create handles POST /v1/tollbooths (admin only).
func (h *TollBoothHandler) Create(c *gin.Context) {
	sess, _ := auth.FromContext(c)
	if !sess.IsAdmin() {
		respondError(c, service.ErrAdminOnly)
		return
	}

	var req CreateTollBoothRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Highway == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and highway are required"})
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		respondError(c, service.ErrInvalidLocation)
		return
	}

	fee, err := decimal.NewFromString(req.ExpressFee)
	if err != nil || !fee.IsPositive() {
		respondError(c, service.ErrInvalidBoothFee)
		return
	}

	booth := &domain.TollBooth{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Highway:    req.Highway,
		Lat:        req.Lat,
		Lng:        req.Lng,
		ExpressFee: fee,
	}

	if err := h.boothRepo.Create(c.Request.Context(), booth); err != nil {
		respondError(c, err)
		return
	}

	// Index and cache updates are best effort; the table stays the source
	// of truth and quoting falls back to it.
	if h.boothIndex != nil {
		if err := h.boothIndex.Add(c.Request.Context(), booth.ID, booth.Lat, booth.Lng); err != nil {
			log.Printf("failed to index toll booth %s: %v", booth.ID, err)
		}
	}
	if h.cacheStore != nil {
		if err := h.cacheStore.InvalidateBooth(c.Request.Context(), booth.ID); err != nil {
			log.Printf("failed to invalidate booth cache %s: %v", booth.ID, err)
		}
	}

	respondJSON(c, http.StatusCreated, toTollBoothResponse(booth))
}

// GetAll handles GET /v1/tollbooths
func (h *TollBoothHandler) GetAll(c *gin.Context) {
	booths, err := h.boothRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TollBoothResponse, 0, len(booths))
	for _, booth := range booths {
		response = append(response, toTollBoothResponse(booth))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetByID handles GET /v1/tollbooths/:id
func (h *TollBoothHandler) GetByID(c *gin.Context) {
	booth, err := h.boothRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTollBoothResponse(booth))
}
