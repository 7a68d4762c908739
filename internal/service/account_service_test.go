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

type accountFixture struct {
	svc     *AccountService
	repo    *memory.AccountRepository
	admin   *domain.CredentialAccount
	admin2  *domain.CredentialAccount
	staff   *domain.CredentialAccount
	adminP  auth.Principal
	admin2P auth.Principal
	staffP  auth.Principal
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	repo := memory.NewAccountRepository()
	f := &accountFixture{
		svc:    NewAccountService(testAuthConfig, repo, nopLogger()),
		repo:   repo,
		admin:  seedAccount(t, repo, "admin", domain.AccountRoleAdmin),
		admin2: seedAccount(t, repo, "carol", domain.AccountRoleAdmin),
		staff:  seedAccount(t, repo, "bob", domain.AccountRoleStaff),
	}
	f.adminP = principalFor(f.admin)
	f.admin2P = principalFor(f.admin2)
	f.staffP = principalFor(f.staff)
	return f
}

func strPtr(s string) *string { return &s }

func rolePtr(r domain.AccountRole) *domain.AccountRole { return &r }

func TestAccountStaffAllowListGrant(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	_, err := f.svc.Update(ctx, f.adminP, f.staff.ID, AccountUpdateInput{AllowedForms: &[]string{"formX"}})
	require.NoError(t, err)

	updated, err := f.repo.GetByID(ctx, f.staff.ID)
	require.NoError(t, err)
	p := principalFor(updated)
	assert.NoError(t, auth.RequireFormAccess(p, "formX"))
	assert.ErrorIs(t, auth.RequireFormAccess(p, "formY"), auth.ErrFormAccessDenied)
}

func TestAccountDeleteDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	err := f.svc.Delete(ctx, f.admin2P, f.admin.ID)
	assertCode(t, err, "CANNOT_DELETE_DEFAULT_ADMIN")

	_, err = f.repo.GetByID(ctx, f.admin.ID)
	assert.NoError(t, err)
}

func TestAccountSelfDelete(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	assertCode(t, f.svc.Delete(ctx, f.admin2P, f.admin2.ID), "CANNOT_ACT_ON_SELF")
	assertCode(t, f.svc.Delete(ctx, f.adminP, f.admin.ID), "CANNOT_ACT_ON_SELF")

	_, err := f.repo.GetByID(ctx, f.admin2.ID)
	assert.NoError(t, err)
}

func TestAccountSelfRoleChange(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	_, err := f.svc.Update(ctx, f.admin2P, f.admin2.ID, AccountUpdateInput{Role: rolePtr(domain.AccountRoleStaff)})
	assertCode(t, err, "CANNOT_ACT_ON_SELF")

	stored, err := f.repo.GetByID(ctx, f.admin2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountRoleAdmin, stored.Role)

	// Setting the same role is not a role change.
	_, err = f.svc.Update(ctx, f.admin2P, f.admin2.ID, AccountUpdateInput{Role: rolePtr(domain.AccountRoleAdmin), Password: strPtr("new-password")})
	assert.NoError(t, err)
}

func TestAccountDefaultAdminRenameOrDemote(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	_, err := f.svc.Update(ctx, f.admin2P, f.admin.ID, AccountUpdateInput{Username: strPtr("root")})
	assertCode(t, err, "CANNOT_DEMOTE_DEFAULT_ADMIN")

	_, err = f.svc.Update(ctx, f.admin2P, f.admin.ID, AccountUpdateInput{Role: rolePtr(domain.AccountRoleStaff)})
	assertCode(t, err, "CANNOT_DEMOTE_DEFAULT_ADMIN")

	_, err = f.svc.Update(ctx, f.admin2P, f.admin.ID, AccountUpdateInput{Password: strPtr("rotated-password")})
	assert.NoError(t, err)
}

func TestAccountAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	_, err := f.svc.List(ctx, f.staffP)
	assertCode(t, err, "ADMIN_REQUIRED")
	_, err = f.svc.Create(ctx, f.staffP, AccountCreateInput{Username: "x", Password: "password123", Role: domain.AccountRoleStaff})
	assertCode(t, err, "ADMIN_REQUIRED")
	assertCode(t, f.svc.Delete(ctx, f.staffP, f.admin2.ID), "ADMIN_REQUIRED")
	_, err = f.svc.List(ctx, discordPrincipal(false))
	assertCode(t, err, "ADMIN_REQUIRED")

	accounts, err := f.svc.List(ctx, discordPrincipal(true))
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestAccountCreate(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	created, err := f.svc.Create(ctx, f.adminP, AccountCreateInput{
		Username:     " dave ",
		Password:     "password123",
		Role:         domain.AccountRoleStaff,
		AllowedForms: []string{"f1", " f1", "", "f2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dave", created.Username)
	assert.Equal(t, []string{"f1", "f2"}, created.AllowedForms)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "admin", *created.CreatedBy)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "password123"))

	byDiscord, err := f.svc.Create(ctx, discordPrincipal(true), AccountCreateInput{Username: "erin", Password: "password123", Role: domain.AccountRoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "discord:alice", *byDiscord.CreatedBy)

	_, err = f.svc.Create(ctx, f.adminP, AccountCreateInput{Username: "dave", Password: "password123", Role: domain.AccountRoleStaff})
	assertCode(t, err, "CONFLICT")

	_, err = f.svc.Create(ctx, f.adminP, AccountCreateInput{Username: "Dave", Password: "password123", Role: domain.AccountRoleStaff})
	assert.NoError(t, err, "usernames are case-sensitive")

	_, err = f.svc.Create(ctx, f.adminP, AccountCreateInput{Username: "frank", Password: "password123", Role: "owner"})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Create(ctx, f.adminP, AccountCreateInput{Username: "frank", Password: "short", Role: domain.AccountRoleStaff})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestAccountUpdate(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	updated, err := f.svc.Update(ctx, f.adminP, f.staff.ID, AccountUpdateInput{
		Username: strPtr("robert"),
		Role:     rolePtr(domain.AccountRoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Username)
	assert.Equal(t, domain.AccountRoleAdmin, updated.Role)

	_, err = f.svc.Update(ctx, f.adminP, f.staff.ID, AccountUpdateInput{Username: strPtr("carol")})
	assertCode(t, err, "CONFLICT")

	_, err = f.svc.Update(ctx, f.adminP, "missing", AccountUpdateInput{})
	assertCode(t, err, "NOT_FOUND")
}

func TestAccountDelete(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	require.NoError(t, f.svc.Delete(ctx, f.adminP, f.staff.ID))
	_, err := f.repo.GetByID(ctx, f.staff.ID)
	assert.Error(t, err)

	assertCode(t, f.svc.Delete(ctx, f.adminP, f.staff.ID), "NOT_FOUND")
}
