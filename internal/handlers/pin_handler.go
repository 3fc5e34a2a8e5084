package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PinHandler struct {
	pins         *services.PinService
	interactions *services.InteractionService
	cache        cache.ViewCache
}

func NewPinHandler(pins *services.PinService, interactions *services.InteractionService, vc cache.ViewCache) *PinHandler {
	return &PinHandler{pins: pins, interactions: interactions, cache: vc}
}

func (h *PinHandler) Get(c *fiber.Ctx) error {
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	return serveCached(c, h.cache, cache.PinPath(id), func() (interface{}, error) {
		return h.pins.GetPin(c.UserContext(), id)
	})
}

func (h *PinHandler) Comments(c *fiber.Ctx) error {
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	limit := c.QueryInt("limit")
	return serveCached(c, h.cache, cache.PinPath(id), func() (interface{}, error) {
		comments, err := h.interactions.ListComments(c.UserContext(), id, limit)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"comments": dto.NewCommentResponses(comments)}, nil
	})
}

func (h *PinHandler) Create(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreatePinRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	pin, err := h.pins.CreatePin(c.UserContext(), p, services.CreatePinInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		MediaType:   models.MediaType(req.MediaType),
		Width:       req.Width,
		Height:      req.Height,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pin)
}

func (h *PinHandler) State(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	state, err := h.interactions.State(c.UserContext(), p.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (h *PinHandler) ToggleLike(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	liked, err := h.interactions.ToggleLike(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isLiked": liked})
}

func (h *PinHandler) ToggleSave(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	saved, err := h.interactions.ToggleSave(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isSaved": saved})
}

func (h *PinHandler) AddComment(c *fiber.Ctx) error {
	p, err := principal.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	id, ok := pinIDParam(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid pin id")
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	comment, err := h.interactions.AddComment(c.UserContext(), p, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCommentResponse(*comment))
}
