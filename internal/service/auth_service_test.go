package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
)

func newAuthService(repo *memory.AccountRepository) *AuthService {
	return NewAuthService(testAuthConfig, repo, auth.NewTokenManager(testAuthConfig.JWTSecret), nopLogger())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()
	seedAccount(t, repo, "bob", domain.AccountRoleStaff, "f1")
	svc := newAuthService(repo)

	result, err := svc.Login(ctx, "bob", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Account.Username)

	claims, err := svc.TokenManager().Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Equal(t, domain.PrincipalKindCredential, claims.Kind)
	assert.Equal(t, domain.AccountRoleStaff, claims.Role)
	assert.Equal(t, claims.ExpiresAt.Time, result.ExpiresAt)

	_, err = svc.Login(ctx, "bob", "wrong-password")
	assertCode(t, err, "UNAUTHORIZED")
	_, err = svc.Login(ctx, "Bob", "password123")
	assertCode(t, err, "UNAUTHORIZED")
	_, err = svc.Login(ctx, "", "")
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestMe(t *testing.T) {
	svc := newAuthService(memory.NewAccountRepository())

	staff := &domain.CredentialAccount{ID: "a1", Username: "bob", Role: domain.AccountRoleStaff, AllowedForms: []string{"f1"}}
	me := svc.Me(auth.CredentialPrincipal{Account: staff})
	assert.Equal(t, Me{
		ID:           "a1",
		Type:         domain.PrincipalKindCredential,
		Username:     "bob",
		Role:         "staff",
		AllowedForms: []string{"f1"},
		IsAdmin:      false,
		IsStaff:      true,
	}, me)

	me = svc.Me(discordPrincipal(true))
	assert.Equal(t, domain.PrincipalKindDiscord, me.Type)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "admin", me.Role)
	assert.True(t, me.IsAdmin)
	assert.True(t, me.IsStaff)
	assert.Equal(t, []string{}, me.AllowedForms)

	me = svc.Me(discordPrincipal(false))
	assert.False(t, me.IsAdmin)
	assert.False(t, me.IsStaff)
	assert.Empty(t, me.Role)
}

func TestChangeOwnPassword(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()
	bob := seedAccount(t, repo, "bob", domain.AccountRoleStaff)
	svc := newAuthService(repo)
	p := principalFor(bob)

	assertCode(t, svc.ChangeOwnPassword(ctx, p, "wrong-password", "new-password-1"), "UNAUTHORIZED")
	assertCode(t, svc.ChangeOwnPassword(ctx, p, "password123", "short"), "VALIDATION_FAILED")
	assertCode(t, svc.ChangeOwnPassword(ctx, discordPrincipal(true), "x", "new-password-1"), "CREDENTIAL_ACCOUNT_REQUIRED")

	require.NoError(t, svc.ChangeOwnPassword(ctx, p, "password123", "new-password-1"))
	_, err := svc.Login(ctx, "bob", "new-password-1")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "bob", "password123")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestEnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()
	svc := newAuthService(repo)

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "bootstrap-pass"))
	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountRoleAdmin, admin.Role)
	require.NotNil(t, admin.CreatedBy)
	assert.Equal(t, domain.SystemCreator, *admin.CreatedBy)

	// A second run keeps the existing password.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "other-pass"))
	_, err = svc.Login(ctx, "admin", "bootstrap-pass")
	assert.NoError(t, err)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
