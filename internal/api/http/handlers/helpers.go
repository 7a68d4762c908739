package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

func principal(c *fiber.Ctx) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, auth.MapError(auth.ErrMissingToken)
	}
	return p, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func accountResponse(a *domain.CredentialAccount) dto.AccountResponse {
	forms := a.AllowedForms
	if forms == nil {
		forms = []string{}
	}
	return dto.AccountResponse{
		ID:           a.ID,
		Username:     a.Username,
		Role:         a.Role,
		AllowedForms: forms,
		CreatedAt:    a.CreatedAt,
		CreatedBy:    a.CreatedBy,
	}
}

func formResponse(f *domain.ApplicationForm) dto.FormResponse {
	return dto.FormResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Position:    f.Position,
		Fields:      fieldsOrEmpty(f.Fields),
		WebhookURL:  f.WebhookURL,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
		CreatedBy:   f.CreatedBy,
	}
}

func publicFormResponse(f *domain.ApplicationForm) dto.PublicFormResponse {
	return dto.PublicFormResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Position:    f.Position,
		Fields:      fieldsOrEmpty(f.Fields),
	}
}

func fieldsOrEmpty(fields []domain.FormField) []domain.FormField {
	if fields == nil {
		return []domain.FormField{}
	}
	return fields
}

func submissionResponse(s *domain.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:            s.ID,
		FormID:        s.FormID,
		ApplicantName: s.ApplicantName,
		Responses:     s.Responses,
		SubmittedAt:   s.SubmittedAt,
		Status:        s.Status,
	}
}

func changelogResponse(e *domain.Changelog) dto.ChangelogResponse {
	return dto.ChangelogResponse{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
	}
}
