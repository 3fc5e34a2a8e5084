package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles *services.ProfileService
	pins     *services.PinService
	cache    cache.ViewCache
}

func NewProfileHandler(profiles *services.ProfileService, pins *services.PinService, vc cache.ViewCache) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, pins: pins, cache: vc}
}

// Get renders a profile page: the user, their counters and one tab of pins.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	username := c.Params("username")
	tab := c.Query("tab", services.TabCreated)
	limit, offset := c.QueryInt("limit"), c.QueryInt("offset")

	return serveCached(c, h.cache, cache.ProfilePath(username), func() (interface{}, error) {
		ctx := c.UserContext()
		profile, err := h.profiles.GetProfile(ctx, username)
		if err != nil {
			return nil, err
		}
		pins, err := h.pins.ListByUser(ctx, profile.User.ID, tab, limit, offset)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"profile": profile,
			"tab":     tab,
			"pins":    pins,
			"page":    dto.Page{Offset: offset, Count: len(pins)},
		}, nil
	})
}
