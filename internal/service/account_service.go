package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// AccountCreateInput carries fields for a new credential account.
type AccountCreateInput struct {
	Username     string
	Password     string
	Role         domain.AccountRole
	AllowedForms []string
}

// AccountUpdateInput carries optional changes; nil fields are left as is.
type AccountUpdateInput struct {
	Username     *string
	Password     *string
	Role         *domain.AccountRole
	AllowedForms *[]string
}

// AccountService manages credential accounts on behalf of admins.
type AccountService struct {
	accounts   repository.AccountRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, accounts repository.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, bcryptCost: cfg.BcryptCost, logger: logger}
}

// List returns every account, newest first.
func (s *AccountService) List(ctx context.Context, actor auth.Principal) ([]domain.CredentialAccount, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, actor auth.Principal, id string) (*domain.CredentialAccount, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "account", id)
	}
	return account, nil
}

// Create adds a credential account. The actor is recorded as creator.
func (s *AccountService) Create(ctx context.Context, actor auth.Principal, input AccountCreateInput) (*domain.CredentialAccount, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	input.Username = strings.TrimSpace(input.Username)
	if err := required(map[string]string{"username": input.Username, "password": input.Password}); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if len(input.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
	}

	if _, err := s.accounts.GetByUsername(ctx, input.Username); err == nil {
		return nil, usernameTaken(input.Username)
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	creator := actor.Name()
	account := &domain.CredentialAccount{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		AllowedForms: normalizeForms(input.AllowedForms),
		CreatedBy:    &creator,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken(input.Username)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)),
		zap.String("created_by", creator))
	return account, nil
}

// Update applies the provided changes. Changing one's own role and renaming or
// demoting the default admin are denied.
func (s *AccountService) Update(ctx context.Context, actor auth.Principal, id string, input AccountUpdateInput) (*domain.CredentialAccount, error) {
	if err := authorize(auth.RequireAdmin(actor)); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "account", id)
	}

	username := account.Username
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("missing required fields", map[string]any{"username": "required"})
		}
	}
	role := account.Role
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		if *input.Role != account.Role {
			if err := authorize(auth.SelfModificationGuard(actor, id)); err != nil {
				return nil, err
			}
		}
		role = *input.Role
	}
	if err := authorize(auth.DefaultAdminChangeGuard(account, username, role)); err != nil {
		return nil, err
	}

	if username != account.Username {
		if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
			return nil, usernameTaken(username)
		} else if !repository.IsNotFound(err) {
			return nil, apperrors.MapError(err)
		}
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		account.PasswordHash = hash
	}
	if input.AllowedForms != nil {
		account.AllowedForms = normalizeForms(*input.AllowedForms)
	}
	account.Username = username
	account.Role = role

	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken(username)
		}
		return nil, notFoundOr(err, "account", id)
	}
	return account, nil
}

// Delete removes an account. Self-deletion and deleting the default admin are
// denied.
func (s *AccountService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := authorize(auth.RequireAdmin(actor), auth.SelfModificationGuard(actor, id)); err != nil {
		return err
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "account", id)
	}
	if err := authorize(auth.ProtectedAccountGuard(account.Username)); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return notFoundOr(err, "account", id)
	}

	s.logger.Info("account deleted", zap.String("account_id", id), zap.String("deleted_by", actor.Name()))
	return nil
}

func usernameTaken(username string) error {
	return apperrors.NewConflict("username already exists", map[string]any{"username": username})
}

// normalizeForms trims ids and drops blanks and duplicates, keeping order.
func normalizeForms(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
