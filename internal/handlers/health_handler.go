package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache cache.ViewCache
}

func NewHealthHandler(db *gorm.DB, vc cache.ViewCache) *HealthHandler {
	return &HealthHandler{db: db, cache: vc}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Cache:     "ok",
	}
	if err := database.Ping(h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
	}
	if err := h.cache.Ping(c.UserContext()); err != nil {
		resp.Status = "degraded"
		resp.Cache = "unhealthy: " + err.Error()
	}

	status := fiber.StatusOK
	if resp.DB != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
