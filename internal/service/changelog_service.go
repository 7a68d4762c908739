package service

import (
	"context"
	"strings"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// PublicChangelogLimit is how many entries the public feed shows.
const PublicChangelogLimit = 10

// ChangelogInput carries the editable fields of a changelog entry.
type ChangelogInput struct {
	Title   string
	Content string
	Version *string
}

// ChangelogService manages release notes.
type ChangelogService struct {
	changelogs repository.ChangelogRepository
}

// NewChangelogService builds the service.
func NewChangelogService(changelogs repository.ChangelogRepository) *ChangelogService {
	return &ChangelogService{changelogs: changelogs}
}

// ListPublic returns the latest entries.
func (s *ChangelogService) ListPublic(ctx context.Context) ([]domain.Changelog, error) {
	entries, err := s.changelogs.List(ctx, PublicChangelogLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListAll returns every entry.
func (s *ChangelogService) ListAll(ctx context.Context, actor auth.Principal) ([]domain.Changelog, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	entries, err := s.changelogs.List(ctx, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *ChangelogService) Create(ctx context.Context, actor auth.Principal, input ChangelogInput) (*domain.Changelog, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	if err := required(map[string]string{"title": input.Title, "content": input.Content}); err != nil {
		return nil, err
	}
	entry := &domain.Changelog{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Version:   input.Version,
		CreatedBy: actor.Name(),
	}
	if err := s.changelogs.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

func (s *ChangelogService) Update(ctx context.Context, actor auth.Principal, id string, input ChangelogInput) (*domain.Changelog, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	if err := required(map[string]string{"title": input.Title, "content": input.Content}); err != nil {
		return nil, err
	}
	entry, err := s.changelogs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "changelog", id)
	}
	entry.Title = strings.TrimSpace(input.Title)
	entry.Content = input.Content
	entry.Version = input.Version
	if err := s.changelogs.Update(ctx, entry); err != nil {
		return nil, notFoundOr(err, "changelog", id)
	}
	return entry, nil
}

func (s *ChangelogService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return err
	}
	if err := s.changelogs.Delete(ctx, id); err != nil {
		return notFoundOr(err, "changelog", id)
	}
	return nil
}
