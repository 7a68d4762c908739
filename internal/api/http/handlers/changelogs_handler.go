package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// ChangelogsHandler serves release notes.
type ChangelogsHandler struct {
	changelogs *service.ChangelogService
}

// NewChangelogsHandler constructs handler.
func NewChangelogsHandler(changelogService *service.ChangelogService) *ChangelogsHandler {
	return &ChangelogsHandler{changelogs: changelogService}
}

// PublicList GET /api/changelogs.
func (h *ChangelogsHandler) PublicList(c *fiber.Ctx) error {
	entries, err := h.changelogs.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": changelogItems(entries)})
}

// List GET /api/admin/changelogs.
func (h *ChangelogsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	entries, err := h.changelogs.ListAll(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": changelogItems(entries)})
}

// Create POST /api/admin/changelogs.
func (h *ChangelogsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ChangelogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.changelogs.Create(c.UserContext(), p, service.ChangelogInput{Title: req.Title, Content: req.Content, Version: req.Version})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": changelogResponse(entry)})
}

// Update PUT /api/admin/changelogs/:id.
func (h *ChangelogsHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ChangelogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.changelogs.Update(c.UserContext(), p, c.Params("id"), service.ChangelogInput{Title: req.Title, Content: req.Content, Version: req.Version})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": changelogResponse(entry)})
}

// Delete DELETE /api/admin/changelogs/:id.
func (h *ChangelogsHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.changelogs.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func changelogItems(entries []domain.Changelog) []dto.ChangelogResponse {
	items := make([]dto.ChangelogResponse, 0, len(entries))
	for i := range entries {
		items = append(items, changelogResponse(&entries[i]))
	}
	return items
}
