package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, principal.ErrMissingPrincipal):
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrPinNotFound), errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		return fail(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidComment),
		errors.Is(err, services.ErrInvalidPin),
		errors.Is(err, services.ErrInvalidMediaType),
		errors.Is(err, services.ErrInvalidTab),
		errors.Is(err, services.ErrUnsupportedMedia):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnsupportedDialect):
		return fail(c, fiber.StatusNotImplemented, err.Error())
	case errors.Is(err, services.ErrStorage):
		slog.ErrorContext(c.UserContext(), "upload failed", "request_id", requestID(c), "path", c.Path(), "error", err)
		return fail(c, fiber.StatusInternalServerError, "Upload failed")
	}

	slog.ErrorContext(c.UserContext(), "request failed",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return dto.Validate(req)
}

func pinIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func mediaTypesQuery(raw string) []models.MediaType {
	var out []models.MediaType
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, models.MediaType(part))
		}
	}
	return out
}
