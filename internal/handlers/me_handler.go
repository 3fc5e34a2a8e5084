package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MeHandler serves the caller's own account.
type MeHandler struct {
	identity      services.Reconciler
	profiles      *services.ProfileService
	notifications *services.NotificationService
}

func NewMeHandler(identity services.Reconciler, profiles *services.ProfileService, notifications *services.NotificationService) *MeHandler {
	return &MeHandler{identity: identity, profiles: profiles, notifications: notifications}
}

func (h *MeHandler) Sync(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.identity.Reconcile(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *MeHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.profiles.UpdateProfile(c.UserContext(), p, services.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Username:    req.Username,
		Bio:         req.Bio,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *MeHandler) Notifications(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.notifications.List(c.UserContext(), p.ID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": list})
}

func (h *MeHandler) MarkRead(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.MarkReadRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	n, err := h.notifications.MarkRead(c.UserContext(), p.ID, req.IDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
