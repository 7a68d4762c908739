// Package memory provides in-process repositories used when no Postgres DSN is
// configured. They follow the Postgres implementations' contracts: misses return
// pgx.ErrNoRows and unique collisions return repository.ErrDuplicate.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
)

var now = time.Now

// AccountRepository is an in-memory repository.AccountRepository.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.CredentialAccount
}

// NewAccountRepository builds an empty store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.CredentialAccount)}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.CredentialAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return repository.ErrDuplicate
		}
	}
	account.ID = uuid.NewString()
	account.CreatedAt = now()
	if account.AllowedForms == nil {
		account.AllowedForms = []string{}
	}
	r.accounts[account.ID] = copyAccount(*account)
	return nil
}

func (r *AccountRepository) Update(_ context.Context, account *domain.CredentialAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.accounts {
		if id != account.ID && existing.Username == account.Username {
			return repository.ErrDuplicate
		}
	}
	stored.Username = account.Username
	stored.PasswordHash = account.PasswordHash
	stored.Role = account.Role
	stored.AllowedForms = account.AllowedForms
	r.accounts[account.ID] = copyAccount(stored)
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.CredentialAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := copyAccount(account)
	return &out, nil
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (*domain.CredentialAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.Username == username {
			out := copyAccount(account)
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *AccountRepository) List(_ context.Context) ([]domain.CredentialAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CredentialAccount, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, copyAccount(account))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func copyAccount(a domain.CredentialAccount) domain.CredentialAccount {
	a.AllowedForms = append([]string{}, a.AllowedForms...)
	return a
}

// DiscordIdentityRepository is an in-memory repository.DiscordIdentityRepository.
type DiscordIdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]domain.DiscordIdentity
}

// NewDiscordIdentityRepository builds an empty store.
func NewDiscordIdentityRepository() *DiscordIdentityRepository {
	return &DiscordIdentityRepository{identities: make(map[string]domain.DiscordIdentity)}
}

func (r *DiscordIdentityRepository) Create(_ context.Context, identity *domain.DiscordIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.identities {
		if existing.DiscordID == identity.DiscordID {
			return repository.ErrDuplicate
		}
	}
	identity.ID = uuid.NewString()
	identity.CreatedAt = now()
	r.identities[identity.ID] = *identity
	return nil
}

func (r *DiscordIdentityRepository) Update(_ context.Context, identity *domain.DiscordIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.identities[identity.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Username = identity.Username
	stored.Avatar = identity.Avatar
	stored.Discriminator = identity.Discriminator
	stored.IsAdmin = identity.IsAdmin
	stored.LastLogin = identity.LastLogin
	r.identities[identity.ID] = stored
	return nil
}

func (r *DiscordIdentityRepository) GetByDiscordID(_ context.Context, discordID string) (*domain.DiscordIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, identity := range r.identities {
		if identity.DiscordID == discordID {
			out := identity
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// FormRepository is an in-memory repository.FormRepository.
type FormRepository struct {
	mu    sync.RWMutex
	forms map[string]domain.ApplicationForm
}

// NewFormRepository builds an empty store.
func NewFormRepository() *FormRepository {
	return &FormRepository{forms: make(map[string]domain.ApplicationForm)}
}

func (r *FormRepository) Create(_ context.Context, form *domain.ApplicationForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	form.ID = uuid.NewString()
	form.CreatedAt = now()
	r.forms[form.ID] = *form
	return nil
}

func (r *FormRepository) Update(_ context.Context, form *domain.ApplicationForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.forms[form.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	form.CreatedAt = stored.CreatedAt
	form.CreatedBy = stored.CreatedBy
	r.forms[form.ID] = *form
	return nil
}

func (r *FormRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.forms, id)
	return nil
}

func (r *FormRepository) GetByID(_ context.Context, id string) (*domain.ApplicationForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &form, nil
}

func (r *FormRepository) List(_ context.Context, activeOnly bool) ([]domain.ApplicationForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ApplicationForm, 0, len(r.forms))
	for _, form := range r.forms {
		if activeOnly && !form.IsActive {
			continue
		}
		out = append(out, form)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SubmissionRepository is an in-memory repository.SubmissionRepository.
type SubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]domain.Submission
}

// NewSubmissionRepository builds an empty store.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{submissions: make(map[string]domain.Submission)}
}

func (r *SubmissionRepository) Create(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission.ID = uuid.NewString()
	submission.SubmittedAt = now()
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *SubmissionRepository) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	submission, ok := r.submissions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &submission, nil
}

func (r *SubmissionRepository) UpdateStatus(_ context.Context, id string, status domain.SubmissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission, ok := r.submissions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	submission.Status = status
	r.submissions[id] = submission
	return nil
}

func (r *SubmissionRepository) List(_ context.Context, filter repository.SubmissionFilter) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var allowed map[string]struct{}
	if filter.FormIDs != nil {
		allowed = make(map[string]struct{}, len(filter.FormIDs))
		for _, id := range filter.FormIDs {
			allowed[id] = struct{}{}
		}
	}
	out := make([]domain.Submission, 0, len(r.submissions))
	for _, submission := range r.submissions {
		if allowed != nil {
			if _, ok := allowed[submission.FormID]; !ok {
				continue
			}
		}
		out = append(out, submission)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// ChangelogRepository is an in-memory repository.ChangelogRepository.
type ChangelogRepository struct {
	mu         sync.RWMutex
	changelogs map[string]domain.Changelog
}

// NewChangelogRepository builds an empty store.
func NewChangelogRepository() *ChangelogRepository {
	return &ChangelogRepository{changelogs: make(map[string]domain.Changelog)}
}

func (r *ChangelogRepository) Create(_ context.Context, changelog *domain.Changelog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	changelog.ID = uuid.NewString()
	changelog.CreatedAt = now()
	r.changelogs[changelog.ID] = *changelog
	return nil
}

func (r *ChangelogRepository) Update(_ context.Context, changelog *domain.Changelog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.changelogs[changelog.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = changelog.Title
	stored.Content = changelog.Content
	stored.Version = changelog.Version
	r.changelogs[changelog.ID] = stored
	return nil
}

func (r *ChangelogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.changelogs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.changelogs, id)
	return nil
}

func (r *ChangelogRepository) GetByID(_ context.Context, id string) (*domain.Changelog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	changelog, ok := r.changelogs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &changelog, nil
}

func (r *ChangelogRepository) List(_ context.Context, limit int) ([]domain.Changelog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Changelog, 0, len(r.changelogs))
	for _, changelog := range r.changelogs {
		out = append(out, changelog)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ repository.AccountRepository         = (*AccountRepository)(nil)
	_ repository.DiscordIdentityRepository = (*DiscordIdentityRepository)(nil)
	_ repository.FormRepository            = (*FormRepository)(nil)
	_ repository.SubmissionRepository      = (*SubmissionRepository)(nil)
	_ repository.ChangelogRepository       = (*ChangelogRepository)(nil)
)
