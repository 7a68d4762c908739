package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

var testAuthConfig = config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}

// seedAccount stores an account with password "password123".
func seedAccount(t *testing.T, repo *memory.AccountRepository, username string, role domain.AccountRole, forms ...string) *domain.CredentialAccount {
	t.Helper()
	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.CredentialAccount{Username: username, PasswordHash: hash, Role: role, AllowedForms: forms}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func principalFor(account *domain.CredentialAccount) auth.Principal {
	return auth.CredentialPrincipal{Account: account}
}

func discordPrincipal(admin bool) auth.Principal {
	return auth.DiscordPrincipal{Identity: &domain.DiscordIdentity{ID: "identity-1", DiscordID: "42", Username: "alice", IsAdmin: admin}}
}

func nopLogger() *zap.Logger { return zap.NewNop() }

// assertCode checks err is a DomainError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, code, de.Code)
}
