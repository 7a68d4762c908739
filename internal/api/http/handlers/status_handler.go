package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/service"
)

// StatusHandler exposes public game server and Discord feeds.
type StatusHandler struct {
	status *service.StatusService
}

// NewStatusHandler constructs handler.
func NewStatusHandler(statusService *service.StatusService) *StatusHandler {
	return &StatusHandler{status: statusService}
}

// ServerStats GET /api/server-stats.
func (h *StatusHandler) ServerStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.status.ServerStats(c.UserContext())})
}

// DiscordMessages GET /api/discord/messages.
func (h *StatusHandler) DiscordMessages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.status.DiscordMessages(c.UserContext())})
}

// DiscordNews GET /api/discord/news.
func (h *StatusHandler) DiscordNews(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.status.DiscordNews(c.UserContext())})
}

// Overview GET /api/status.
func (h *StatusHandler) Overview(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.status.Overview(c.UserContext())})
}
