package service

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// MinPasswordLength applies to passwords set through the API.
const MinPasswordLength = 8

// LoginResult is returned by a successful credential login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.CredentialAccount
}

// Me describes the calling principal.
type Me struct {
	ID           string
	Type         domain.PrincipalKind
	Username     string
	Role         string
	AllowedForms []string
	IsAdmin      bool
	IsStaff      bool
	Avatar       *string
}

// AuthService coordinates credential login and self-service account actions.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates a credential account. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := required(map[string]string{"username": username, "password": password}); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, claims, err := s.tokenMgr.Issue(auth.Claims{
		Kind:             domain.PrincipalKindCredential,
		Role:             account.Role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: account.Username},
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, Account: account}, nil
}

// Me summarises the principal for the frontend.
func (s *AuthService) Me(p auth.Principal) Me {
	me := Me{
		ID:      p.ID(),
		Type:    p.Kind(),
		IsAdmin: auth.IsAdmin(p),
		IsStaff: auth.RequireStaffOrAdmin(p) == nil,
	}
	switch v := p.(type) {
	case auth.CredentialPrincipal:
		me.Username = v.Account.Username
		me.Role = string(v.Account.Role)
		me.AllowedForms = v.Account.AllowedForms
	case auth.DiscordPrincipal:
		me.Username = v.Identity.Username
		me.Avatar = v.Identity.Avatar
		if v.Identity.IsAdmin {
			me.Role = string(domain.AccountRoleAdmin)
		}
	}
	if me.AllowedForms == nil {
		me.AllowedForms = []string{}
	}
	return me
}

// ChangeOwnPassword verifies the current password before storing the new one.
func (s *AuthService) ChangeOwnPassword(ctx context.Context, p auth.Principal, currentPassword, newPassword string) error {
	cp, ok := p.(auth.CredentialPrincipal)
	if !ok {
		return apperrors.NewForbidden("CREDENTIAL_ACCOUNT_REQUIRED", "only password accounts have a password")
	}
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
	}

	account, err := s.accounts.GetByID(ctx, cp.ID())
	if err != nil {
		return notFoundOr(err, "account", cp.ID())
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	account.PasswordHash = hash
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// EnsureDefaultAdmin creates the admin account when it does not exist. An
// existing account is left untouched, including its password.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, password string) error {
	_, err := s.accounts.GetByUsername(ctx, domain.DefaultAdminUsername)
	if err == nil {
		return nil
	}
	if !repository.IsNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	creator := domain.SystemCreator
	err = s.accounts.Create(ctx, &domain.CredentialAccount{
		Username:     domain.DefaultAdminUsername,
		PasswordHash: hash,
		Role:         domain.AccountRoleAdmin,
		AllowedForms: []string{},
		CreatedBy:    &creator,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("default admin account created", zap.String("username", domain.DefaultAdminUsername))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
