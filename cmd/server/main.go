package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tollpass/internal/app"
	"tollpass/internal/config"
	"tollpass/internal/handler"
	"tollpass/internal/kafka"
	internalRedis "tollpass/internal/redis"
	"tollpass/internal/repository/postgres"
	"tollpass/internal/routing"
	"tollpass/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	if err := app.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("Migrations up to date")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Kafka producer for the receipt pipeline.
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	// Wire dependencies.
	server, bookingService := wireServer(db, redisClient, producer, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Background sweep: move confirmed bookings past their arrival window to
	// completed. The Redis leader lock keeps multiple instances from racing.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweep(sweepCtx, bookingService, cfg.Sweep.Interval)

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// runSweep runs the booking expiry sweep on a fixed interval until the
// context is cancelled.
func runSweep(ctx context.Context, bookingService *service.BookingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			expired, err := bookingService.SweepExpired(ctx, now)
			if err != nil {
				log.Printf("booking sweep: %v", err)
			}
			if expired > 0 {
				log.Printf("booking sweep: %d bookings completed", expired)
			}
		}
	}
}

// wireServer wires all dependencies and returns the HTTP server plus the
// booking service for the sweep loop.
func wireServer(db *sql.DB, redisClient *redis.Client, producer *kafka.Producer, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.BookingService) {
	// Initialize Redis stores.
	boothIndex := internalRedis.NewBoothIndex(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	boothRepo := postgres.NewTollBoothRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	// Distance provider.
	provider := routing.NewOSRMClient(cfg.Routing.BaseURL, cfg.Routing.Timeout)

	// Initialize services.
	notificationService := service.NewNotificationService(producer, cfg.Kafka.ReceiptTopic)
	eligibilityService := service.NewEligibilityService(boothRepo, boothIndex, cacheStore, provider)
	bookingService := service.NewBookingService(db, bookingRepo, userRepo, boothRepo, ledgerRepo, provider, lockStore, notificationService)
	ledgerService := service.NewLedgerService(db, ledgerRepo, userRepo)
	userService := service.NewUserService(db, userRepo, ledgerRepo)
	adminService := service.NewAdminService(db, bookingRepo, ledgerRepo)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService, userRepo, ledgerService)
	boothHandler := handler.NewTollBoothHandler(boothRepo, boothIndex, cacheStore)
	bookingHandler := handler.NewBookingHandler(bookingService, eligibilityService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:      userHandler,
		TollBoothHandler: boothHandler,
		BookingHandler:   bookingHandler,
		AdminHandler:     adminHandler,
		UserRepo:         userRepo,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, bookingService
}
