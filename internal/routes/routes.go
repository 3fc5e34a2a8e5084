package routes

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	feedHandler *handlers.FeedHandler,
	pinHandler *handlers.PinHandler,
	profileHandler *handlers.ProfileHandler,
	meHandler *handlers.MeHandler,
	followHandler *handlers.FollowHandler,
	uploadHandler *handlers.UploadHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(middleware.RateLimit(60))

	api.Get("/health", healthHandler.Check)

	// Public views (cached)
	api.Get("/feed", feedHandler.Feed)
	api.Get("/search", feedHandler.Search)
	api.Get("/pins/:id", pinHandler.Get)
	api.Get("/pins/:id/comments", pinHandler.Comments)
	api.Get("/profiles/:username", profileHandler.Get)

	// Protected routes (JWT required) - middleware on individual routes so
	// the public GETs above stay anonymous
	auth := middleware.JWTProtected(cfg)

	api.Post("/me/sync", auth, meHandler.Sync)
	api.Put("/me/profile", auth, meHandler.UpdateProfile)
	api.Get("/me/notifications", auth, meHandler.Notifications)
	api.Post("/me/notifications/read", auth, meHandler.MarkRead)

	api.Post("/pins", auth, pinHandler.Create)
	api.Get("/pins/:id/state", auth, pinHandler.State)
	api.Post("/pins/:id/like", auth, pinHandler.ToggleLike)
	api.Post("/pins/:id/save", auth, pinHandler.ToggleSave)
	api.Post("/pins/:id/comments", auth, pinHandler.AddComment)

	api.Post("/users/:id/follow", auth, followHandler.Toggle)
	api.Get("/users/:id/follow", auth, followHandler.Status)

	// Uploads: 10 req/min per IP (stricter)
	api.Post("/uploads", middleware.RateLimit(10), auth, uploadHandler.Upload)

	// Operator endpoints
	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/maintenance/pins", adminHandler.DiagnosePins)
	admin.Post("/maintenance/pin-sequence", adminHandler.ResetPinSequence)
	admin.Post("/maintenance/placeholders", adminHandler.MarkPlaceholders)
	admin.Get("/logs", adminHandler.Logs)
}
