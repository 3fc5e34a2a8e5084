package handlers

import (
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	maintenance *services.MaintenanceService
}

func NewAdminHandler(maintenance *services.MaintenanceService) *AdminHandler {
	return &AdminHandler{maintenance: maintenance}
}

func (h *AdminHandler) DiagnosePins(c *fiber.Ctx) error {
	d, err := h.maintenance.DiagnosePins(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (h *AdminHandler) ResetPinSequence(c *fiber.Ctx) error {
	value, err := h.maintenance.ResetPinSequence(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sequenceValue": value})
}

func (h *AdminHandler) MarkPlaceholders(c *fiber.Ctx) error {
	n, err := h.maintenance.MarkLegacyPlaceholders(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"marked": n})
}

func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.maintenance.SystemLogs(c.UserContext(), c.Query("level"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs})
}
