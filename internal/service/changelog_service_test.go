package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
)

func TestChangelogs(t *testing.T) {
	ctx := context.Background()
	svc := NewChangelogService(memory.NewChangelogRepository())
	admin := principalFor(&domain.CredentialAccount{ID: "a", Username: "admin", Role: domain.AccountRoleAdmin})
	staff := principalFor(&domain.CredentialAccount{ID: "s", Username: "bob", Role: domain.AccountRoleStaff})

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, admin, ChangelogInput{Title: fmt.Sprintf("Update %d", i), Content: "notes"})
		require.NoError(t, err)
	}

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, PublicChangelogLimit)

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	_, err = svc.ListAll(ctx, staff)
	assertCode(t, err, "ADMIN_REQUIRED")
	_, err = svc.Create(ctx, discordPrincipal(false), ChangelogInput{Title: "x", Content: "y"})
	assertCode(t, err, "ADMIN_REQUIRED")
	_, err = svc.Create(ctx, admin, ChangelogInput{Title: "x"})
	assertCode(t, err, "VALIDATION_FAILED")

	version := "1.2.0"
	entry, err := svc.Create(ctx, discordPrincipal(true), ChangelogInput{Title: "Release", Content: "notes", Version: &version})
	require.NoError(t, err)
	assert.Equal(t, "discord:alice", entry.CreatedBy)

	updated, err := svc.Update(ctx, admin, entry.ID, ChangelogInput{Title: "Release 2", Content: "more"})
	require.NoError(t, err)
	assert.Equal(t, "Release 2", updated.Title)
	assert.Nil(t, updated.Version)
	assert.Equal(t, "discord:alice", updated.CreatedBy)

	require.NoError(t, svc.Delete(ctx, admin, entry.ID))
	assertCode(t, svc.Delete(ctx, admin, entry.ID), "NOT_FOUND")
	_, err = svc.Update(ctx, admin, "missing", ChangelogInput{Title: "a", Content: "b"})
	assertCode(t, err, "NOT_FOUND")
}
