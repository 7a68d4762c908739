package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// SubmissionsHandler handles applications and their review.
type SubmissionsHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissionService *service.SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissionService}
}

// Submit POST /api/applications/submit.
func (h *SubmissionsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	submission, err := h.submissions.Submit(c.UserContext(), service.SubmitInput{
		FormID:        req.FormID,
		ApplicantName: req.ApplicantName,
		Responses:     req.Responses,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":     submission.ID,
		"status": submission.Status,
	}})
}

// List GET /api/admin/submissions.
func (h *SubmissionsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	submissions, err := h.submissions.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, submissionResponse(&submissions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/admin/submissions/:id.
func (h *SubmissionsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	submission, err := h.submissions.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionResponse(submission)})
}

// UpdateStatus PUT /api/admin/submissions/:id/status.
func (h *SubmissionsHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	submission, err := h.submissions.UpdateStatus(c.UserContext(), p, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionResponse(submission)})
}
