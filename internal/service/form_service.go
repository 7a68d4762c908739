package service

import (
	"context"
	"strings"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// FormInput carries the editable fields of an application form.
type FormInput struct {
	Title       string
	Description string
	Position    string
	Fields      []domain.FormField
	WebhookURL  *string
	IsActive    bool
}

// FormService manages application forms.
type FormService struct {
	forms repository.FormRepository
}

// NewFormService builds the service.
func NewFormService(forms repository.FormRepository) *FormService {
	return &FormService{forms: forms}
}

// Create adds a form.
func (s *FormService) Create(ctx context.Context, actor auth.Principal, input FormInput) (*domain.ApplicationForm, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	if err := required(map[string]string{"title": input.Title}); err != nil {
		return nil, err
	}
	form := &domain.ApplicationForm{CreatedBy: actor.Name()}
	applyFormInput(form, input)
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, apperrors.MapError(err)
	}
	return form, nil
}

// Update replaces the editable fields of a form.
func (s *FormService) Update(ctx context.Context, actor auth.Principal, id string, input FormInput) (*domain.ApplicationForm, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	if err := required(map[string]string{"title": input.Title}); err != nil {
		return nil, err
	}
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "application form", id)
	}
	applyFormInput(form, input)
	if err := s.forms.Update(ctx, form); err != nil {
		return nil, notFoundOr(err, "application form", id)
	}
	return form, nil
}

// Delete removes a form. Existing submissions are kept.
func (s *FormService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return err
	}
	if err := s.forms.Delete(ctx, id); err != nil {
		return notFoundOr(err, "application form", id)
	}
	return nil
}

// ListForStaff returns every form the actor may access, active or not.
func (s *FormService) ListForStaff(ctx context.Context, actor auth.Principal) ([]domain.ApplicationForm, error) {
	if err := authorize(auth.RequireStaffOrAdmin(actor)); err != nil {
		return nil, err
	}
	forms, err := s.forms.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.ApplicationForm, 0, len(forms))
	for _, form := range forms {
		if auth.RequireFormAccess(actor, form.ID) == nil {
			out = append(out, form)
		}
	}
	return out, nil
}

// GetForStaff returns a form if the actor may access it.
func (s *FormService) GetForStaff(ctx context.Context, actor auth.Principal, id string) (*domain.ApplicationForm, error) {
	if err := authorize(auth.RequireFormAccess(actor, id)); err != nil {
		return nil, err
	}
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "application form", id)
	}
	return form, nil
}

// ListPublic returns active forms.
func (s *FormService) ListPublic(ctx context.Context) ([]domain.ApplicationForm, error) {
	forms, err := s.forms.List(ctx, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return forms, nil
}

// GetPublic returns an active form; inactive forms are reported as missing.
func (s *FormService) GetPublic(ctx context.Context, id string) (*domain.ApplicationForm, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "application form", id)
	}
	if !form.IsActive {
		return nil, apperrors.NewNotFound("application form", map[string]any{"id": id})
	}
	return form, nil
}

func applyFormInput(form *domain.ApplicationForm, input FormInput) {
	form.Title = strings.TrimSpace(input.Title)
	form.Description = input.Description
	form.Position = input.Position
	form.Fields = input.Fields
	if form.Fields == nil {
		form.Fields = []domain.FormField{}
	}
	form.WebhookURL = nil
	if input.WebhookURL != nil && strings.TrimSpace(*input.WebhookURL) != "" {
		url := strings.TrimSpace(*input.WebhookURL)
		form.WebhookURL = &url
	}
	form.IsActive = input.IsActive
}
