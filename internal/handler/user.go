package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tollpass/internal/auth"
	"tollpass/internal/domain"
	"tollpass/internal/repository"
	"tollpass/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService   *service.UserService
	userRepo      repository.UserRepository
	ledgerService *service.LedgerService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, userRepo repository.UserRepository, ledgerService *service.LedgerService) *UserHandler {
	return &UserHandler{userService: userService, userRepo: userRepo, ledgerService: ledgerService}
}

// RegisterRequest is the HTTP request body for registration.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	LicensePlate string `json:"license_plate"`
	Role         string `json:"role,omitempty"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	LicensePlate string `json:"license_plate"`
	Balance      string `json:"balance"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         string(user.Role),
		LicensePlate: user.LicensePlate,
		Balance:      user.Balance.StringFixed(2),
	}
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and email are required"})
		return
	}

	role := domain.RoleDriver
	if req.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	if req.LicensePlate == "" && role == domain.RoleDriver {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "license_plate is required for drivers"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterUserRequest{
		Name:         req.Name,
		Email:        req.Email,
		LicensePlate: req.LicensePlate,
		Role:         role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetByID handles GET /v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	sess, _ := auth.FromContext(c)
	userID := c.Param("id")

	if userID != sess.UserID && !sess.IsAdmin() {
		respondError(c, service.ErrForbidden)
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// LedgerEntryResponse is the HTTP representation of a ledger entry.
type LedgerEntryResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id,omitempty"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Ledger handles GET /v1/users/:id/ledger
func (h *UserHandler) Ledger(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	entries, err := h.ledgerService.History(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, LedgerEntryResponse{
			ID:          e.ID,
			BookingID:   e.BookingID,
			Type:        string(e.Type),
			Amount:      e.Amount.StringFixed(2),
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// TopUpRequest is the HTTP request body for a balance top-up.
type TopUpRequest struct {
	Amount string `json:"amount"`
}

// TopUp handles POST /v1/users/:id/topup
func (h *UserHandler) TopUp(c *gin.Context) {
	sess, _ := auth.FromContext(c)

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, service.ErrInvalidAmount)
		return
	}

	if err := h.ledgerService.TopUp(c.Request.Context(), sess, c.Param("id"), amount); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}
