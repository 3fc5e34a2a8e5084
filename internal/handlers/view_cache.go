package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/gofiber/fiber/v2"
)

// serveCached answers from the view cache when it holds a render of this
// request, otherwise builds the payload and stores it under path. Errors from
// build are never cached.
func serveCached(c *fiber.Ctx, vc cache.ViewCache, path string, build func() (interface{}, error)) error {
	ctx := c.UserContext()
	variant := c.OriginalURL()

	if body, ok, err := vc.Get(ctx, path, variant); err != nil {
		slog.WarnContext(ctx, "view cache read failed", "view", path, "error", err)
	} else if ok {
		c.Set("X-Cache", "HIT")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	payload, err := build()
	if err != nil {
		return respondError(c, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return respondError(c, err)
	}
	if err := vc.Set(ctx, path, variant, body); err != nil {
		slog.WarnContext(ctx, "view cache write failed", "view", path, "error", err)
	}

	c.Set("X-Cache", "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
