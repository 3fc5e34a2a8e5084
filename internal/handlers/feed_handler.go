package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FeedHandler struct {
	pins  *services.PinService
	cache cache.ViewCache
}

func NewFeedHandler(pins *services.PinService, vc cache.ViewCache) *FeedHandler {
	return &FeedHandler{pins: pins, cache: vc}
}

// Feed serves the home view: newest pins first.
func (h *FeedHandler) Feed(c *fiber.Ctx) error {
	q := services.FeedQuery{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	return serveCached(c, h.cache, cache.HomePath, func() (interface{}, error) {
		pins, err := h.pins.Feed(c.UserContext(), q)
		if err != nil {
			return nil, err
		}
		return dto.PinListResponse{Pins: pins, Page: dto.Page{Offset: q.Offset, Count: len(pins)}}, nil
	})
}

func (h *FeedHandler) Search(c *fiber.Ctx) error {
	q := services.SearchQuery{
		Text:   c.Query("q"),
		Types:  mediaTypesQuery(c.Query("types")),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	pins, err := h.pins.Search(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PinListResponse{Pins: pins, Page: dto.Page{Offset: q.Offset, Count: len(pins)}})
}
