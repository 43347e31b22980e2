package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"tollpass/internal/auth"
	"tollpass/internal/handler"
	"tollpass/internal/middleware"
	"tollpass/internal/repository"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler      *handler.UserHandler
	TollBoothHandler *handler.TollBoothHandler
	BookingHandler   *handler.BookingHandler
	AdminHandler     *handler.AdminHandler
	UserRepo         repository.UserRepository
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	session := auth.Middleware(deps.UserRepo)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes. Registration is the only unauthenticated endpoint.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("/:id", session, deps.UserHandler.GetByID)
			users.GET("/:id/ledger", session, deps.UserHandler.Ledger)
			users.POST("/:id/topup", session, deps.UserHandler.TopUp)
		}

		// Toll booth routes.
		booths := v1.Group("/tollbooths", session)
		{
			booths.POST("", deps.TollBoothHandler.Create)
			booths.GET("", deps.TollBoothHandler.GetAll)
			booths.GET("/:id", deps.TollBoothHandler.GetByID)
		}

		// Booking routes.
		bookings := v1.Group("/bookings", session)
		{
			bookings.GET("/quote", deps.BookingHandler.Quote)
			bookings.POST("", deps.BookingHandler.Create)
			bookings.POST("/fasttag", deps.BookingHandler.CreateFastTag)
			bookings.GET("", deps.BookingHandler.List)
			bookings.GET("/:id", deps.BookingHandler.GetByID)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
		}

		// Admin reconciliation routes.
		admin := v1.Group("/admin/bookings", session)
		{
			admin.GET("/pending", deps.AdminHandler.Pending)
			admin.POST("/:id/refund", deps.AdminHandler.Refund)
			admin.POST("/:id/no-refund", deps.AdminHandler.NoRefund)
			admin.POST("/:id/fine", deps.AdminHandler.Fine)
			admin.POST("/:id/no-fine", deps.AdminHandler.NoFine)
		}
	}

	return router
}
