package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminRequired guards operator routes with the X-Admin-Token header, checked
// against the bcrypt hash in ADMIN_TOKEN_HASH. Without a hash configured the
// routes are closed.
func AdminRequired(cfg *config.Config) fiber.Handler {
	hash := []byte(cfg.AdminTokenHash)

	return func(c *fiber.Ctx) error {
		if len(hash) == 0 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access disabled",
			})
		}

		token := c.Get("X-Admin-Token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
			slog.Warn("admin token rejected", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
