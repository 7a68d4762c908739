package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// FormsHandler serves application forms to admins, staff and applicants.
type FormsHandler struct {
	forms *service.FormService
}

// NewFormsHandler constructs handler.
func NewFormsHandler(formService *service.FormService) *FormsHandler {
	return &FormsHandler{forms: formService}
}

// List GET /api/admin/application-forms.
func (h *FormsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	forms, err := h.forms.ListForStaff(c.UserContext(), p)
	if err != nil {
		return err
	}
	items := make([]dto.FormResponse, 0, len(forms))
	for i := range forms {
		items = append(items, formResponse(&forms[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/admin/application-forms/:id.
func (h *FormsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	form, err := h.forms.GetForStaff(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": formResponse(form)})
}

// Create POST /api/admin/application-forms.
func (h *FormsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.FormRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	form, err := h.forms.Create(c.UserContext(), p, formInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": formResponse(form)})
}

// Update PUT /api/admin/application-forms/:id.
func (h *FormsHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.FormRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	form, err := h.forms.Update(c.UserContext(), p, c.Params("id"), formInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": formResponse(form)})
}

// Delete DELETE /api/admin/application-forms/:id.
func (h *FormsHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.forms.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PublicList GET /api/applications.
func (h *FormsHandler) PublicList(c *fiber.Ctx) error {
	forms, err := h.forms.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PublicFormResponse, 0, len(forms))
	for i := range forms {
		items = append(items, publicFormResponse(&forms[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PublicGet GET /api/applications/:id.
func (h *FormsHandler) PublicGet(c *fiber.Ctx) error {
	form, err := h.forms.GetPublic(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": publicFormResponse(form)})
}

func formInput(req dto.FormRequest) service.FormInput {
	return service.FormInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		Fields:      req.Fields,
		WebhookURL:  req.WebhookURL,
		IsActive:    req.IsActive,
	}
}
