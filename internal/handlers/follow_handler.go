package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) Toggle(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	following, err := h.follows.ToggleFollow(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": following})
}

func (h *FollowHandler) Status(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	following, err := h.follows.IsFollowing(c.UserContext(), p.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": following})
}
