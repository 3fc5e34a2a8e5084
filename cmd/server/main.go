package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(database.DB)
	logging.Setup(cfg.LogLevel, dbLogHandler)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	logging.StartCleanup(ctx, database.DB, cfg.LogRetention)

	// View cache
	var viewCache cache.ViewCache = cache.Nop{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable at startup, cache calls will fail soft", "addr", cfg.RedisAddr, "error", err)
		}
		viewCache = cache.NewRedisViewCache(redisClient, cfg.ViewCacheTTL, cfg.RevalidateChannel)
		slog.Info("view cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.ViewCacheTTL.String())
	}

	// Activity events
	var publisher events.Publisher = events.Nop{}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(events.NewKafkaWriter(events.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: cfg.KafkaWriteTimeout,
		}))
		publisher = kafkaPublisher
		slog.Info("activity events enabled", "topic", cfg.KafkaTopic)
	}

	// Identity provider sync
	var provider identity.Provider = identity.Nop{}
	if cfg.IdentitySyncEnabled() {
		provider = identity.NewClient(cfg.IdentityAPIURL, cfg.IdentitySecretKey)
	}

	store, err := storage.New(cfg)
	if err != nil {
		slog.Error("storage setup failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// Services
	identityService := services.NewIdentityService(database.DB, viewCache, publisher)
	paging := services.Paging{Feed: cfg.FeedPageSize, Search: cfg.SearchPageSize, Max: cfg.MaxPageSize}
	pinService := services.NewPinService(database.DB, identityService, paging, viewCache, publisher)
	interactionService := services.NewInteractionService(database.DB, identityService, viewCache, publisher)
	followService := services.NewFollowService(database.DB, identityService, viewCache, publisher)
	profileService := services.NewProfileService(database.DB, provider, viewCache)
	uploadService := services.NewUploadService(store, cfg.UploadMaxMB)
	notificationService := services.NewNotificationService(database.DB)
	maintenanceService := services.NewMaintenanceService(database.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler(database.DB, viewCache)
	feedHandler := handlers.NewFeedHandler(pinService, viewCache)
	pinHandler := handlers.NewPinHandler(pinService, interactionService, viewCache)
	profileHandler := handlers.NewProfileHandler(profileService, pinService, viewCache)
	meHandler := handlers.NewMeHandler(identityService, profileService, notificationService)
	followHandler := handlers.NewFollowHandler(followService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	adminHandler := handlers.NewAdminHandler(maintenanceService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	if cfg.StorageDriver == "" || cfg.StorageDriver == "disk" {
		app.Static(storage.DiskPrefix, storage.DiskServeRoot(cfg), fiber.Static{MaxAge: 86400})
	}

	routes.Setup(app, cfg, healthHandler, feedHandler, pinHandler, profileHandler, meHandler, followHandler, uploadHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			slog.Error("kafka writer close error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// 5xx details stay in the logs.
	if code >= 500 {
		slog.ErrorContext(c.UserContext(), "unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
