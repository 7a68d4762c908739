package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/events"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// maxEmbedFields is Discord's practical limit for one notification embed.
const maxEmbedFields = 10

// SubmitInput is a public application submission.
type SubmitInput struct {
	FormID        string
	ApplicantName string
	Responses     map[string]any
}

// SubmissionService handles applications and their review.
type SubmissionService struct {
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// SubmissionDependencies encapsulates repo requirements for the service.
type SubmissionDependencies struct {
	FormRepo       repository.FormRepository
	SubmissionRepo repository.SubmissionRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewSubmissionService builds the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	return &SubmissionService{
		forms:       deps.FormRepo,
		submissions: deps.SubmissionRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Submit stores a submission for an active form and announces it.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error) {
	if err := required(map[string]string{"form_id": input.FormID, "applicant_name": input.ApplicantName}); err != nil {
		return nil, err
	}
	form, err := s.forms.GetByID(ctx, input.FormID)
	if err != nil {
		return nil, notFoundOr(err, "application form", input.FormID)
	}
	if !form.IsActive {
		return nil, apperrors.NewNotFound("application form", map[string]any{"id": input.FormID})
	}

	responses := input.Responses
	if responses == nil {
		responses = map[string]any{}
	}
	submission := &domain.Submission{
		FormID:        form.ID,
		ApplicantName: strings.TrimSpace(input.ApplicantName),
		Responses:     responses,
		Status:        domain.SubmissionStatusPending,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventSubmissionCreated,
		SubjectID: submission.ID,
		Actor:     submission.ApplicantName,
		Timestamp: submission.SubmittedAt,
		Payload: events.SubmissionCreatedPayload{
			FormID:        form.ID,
			FormTitle:     form.Title,
			Position:      form.Position,
			ApplicantName: submission.ApplicantName,
			WebhookURL:    form.WebhookURL,
			Fields:        embedFields(form.Fields, responses),
			SubmittedAt:   submission.SubmittedAt,
		},
	})
	return submission, nil
}

// List returns the submissions visible to the actor, newest first. Staff only
// see submissions for forms on their allow-list.
func (s *SubmissionService) List(ctx context.Context, actor auth.Principal) ([]domain.Submission, error) {
	if err := authorize(auth.RequireStaffOrAdmin(actor)); err != nil {
		return nil, err
	}
	filter := repository.SubmissionFilter{}
	if !auth.IsAdmin(actor) {
		filter.FormIDs = []string{}
		if cp, ok := actor.(auth.CredentialPrincipal); ok {
			filter.FormIDs = append(filter.FormIDs, cp.Account.AllowedForms...)
		}
	}
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return submissions, nil
}

// Get returns a submission if the actor may access its form.
func (s *SubmissionService) Get(ctx context.Context, actor auth.Principal, id string) (*domain.Submission, error) {
	if err := authorize(auth.RequireStaffOrAdmin(actor)); err != nil {
		return nil, err
	}
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "submission", id)
	}
	if err := authorize(auth.RequireFormAccess(actor, submission.FormID)); err != nil {
		return nil, err
	}
	return submission, nil
}

// UpdateStatus records a review decision.
func (s *SubmissionService) UpdateStatus(ctx context.Context, actor auth.Principal, id string, status domain.SubmissionStatus) (*domain.Submission, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	submission, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.submissions.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "submission", id)
	}

	old := submission.Status
	submission.Status = status
	if old != status {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventSubmissionStatusChanged,
			SubjectID: submission.ID,
			Actor:     actor.Name(),
			Payload: events.SubmissionStatusChangedPayload{
				FormID:    submission.FormID,
				OldStatus: string(old),
				NewStatus: string(status),
			},
		})
	}
	return submission, nil
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// embedFields pairs the first form fields with the applicant's answers.
func embedFields(fields []domain.FormField, responses map[string]any) []events.SubmissionField {
	n := len(fields)
	if n > maxEmbedFields {
		n = maxEmbedFields
	}
	out := make([]events.SubmissionField, 0, n)
	for _, field := range fields[:n] {
		out = append(out, events.SubmissionField{
			Label: field.Label,
			Value: responseString(responses[field.ID]),
		})
	}
	return out
}

func responseString(v any) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case string:
		if strings.TrimSpace(val) == "" {
			return "N/A"
		}
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
