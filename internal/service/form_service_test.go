package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
)

func seedForm(t *testing.T, repo *memory.FormRepository, title string, active bool, fields ...domain.FormField) *domain.ApplicationForm {
	t.Helper()
	form := &domain.ApplicationForm{Title: title, Position: title + " position", Fields: fields, IsActive: active, CreatedBy: "admin"}
	require.NoError(t, repo.Create(context.Background(), form))
	return form
}

func formIDs(forms []domain.ApplicationForm) []string {
	ids := make([]string, 0, len(forms))
	for _, f := range forms {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestFormAdminCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFormRepository()
	svc := NewFormService(repo)
	admin := principalFor(&domain.CredentialAccount{ID: "a", Username: "admin", Role: domain.AccountRoleAdmin})
	staff := principalFor(&domain.CredentialAccount{ID: "s", Username: "bob", Role: domain.AccountRoleStaff})

	hook := " https://discord.com/api/webhooks/1/abc "
	form, err := svc.Create(ctx, admin, FormInput{Title: "Police", Position: "Officer", WebhookURL: &hook, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "admin", form.CreatedBy)
	require.NotNil(t, form.WebhookURL)
	assert.Equal(t, "https://discord.com/api/webhooks/1/abc", *form.WebhookURL)
	assert.Equal(t, []domain.FormField{}, form.Fields)

	_, err = svc.Create(ctx, staff, FormInput{Title: "EMS"})
	assertCode(t, err, "ADMIN_REQUIRED")
	_, err = svc.Create(ctx, admin, FormInput{Title: "  "})
	assertCode(t, err, "VALIDATION_FAILED")

	updated, err := svc.Update(ctx, admin, form.ID, FormInput{Title: "Police Dept", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "Police Dept", updated.Title)
	assert.Nil(t, updated.WebhookURL)
	assert.Equal(t, "admin", updated.CreatedBy)

	_, err = svc.Update(ctx, admin, "missing", FormInput{Title: "x"})
	assertCode(t, err, "NOT_FOUND")

	assertCode(t, svc.Delete(ctx, staff, form.ID), "ADMIN_REQUIRED")
	require.NoError(t, svc.Delete(ctx, admin, form.ID))
	assertCode(t, svc.Delete(ctx, admin, form.ID), "NOT_FOUND")
}

func TestFormStaffScoping(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFormRepository()
	svc := NewFormService(repo)
	police := seedForm(t, repo, "Police", true)
	ems := seedForm(t, repo, "EMS", false)
	mech := seedForm(t, repo, "Mechanic", true)

	staff := principalFor(&domain.CredentialAccount{ID: "s", Username: "bob", Role: domain.AccountRoleStaff, AllowedForms: []string{police.ID, ems.ID}})
	admin := principalFor(&domain.CredentialAccount{ID: "a", Username: "admin", Role: domain.AccountRoleAdmin})

	forms, err := svc.ListForStaff(ctx, staff)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{police.ID, ems.ID}, formIDs(forms))

	forms, err = svc.ListForStaff(ctx, admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{police.ID, ems.ID, mech.ID}, formIDs(forms))

	_, err = svc.ListForStaff(ctx, discordPrincipal(false))
	assertCode(t, err, "STAFF_OR_ADMIN_REQUIRED")

	got, err := svc.GetForStaff(ctx, staff, ems.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMS", got.Title)

	_, err = svc.GetForStaff(ctx, staff, mech.ID)
	assertCode(t, err, "FORM_ACCESS_DENIED")
}

func TestFormPublic(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFormRepository()
	svc := NewFormService(repo)
	active := seedForm(t, repo, "Police", true)
	inactive := seedForm(t, repo, "EMS", false)

	forms, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{active.ID}, formIDs(forms))

	_, err = svc.GetPublic(ctx, active.ID)
	assert.NoError(t, err)
	_, err = svc.GetPublic(ctx, inactive.ID)
	assertCode(t, err, "NOT_FOUND")
	_, err = svc.GetPublic(ctx, "missing")
	assertCode(t, err, "NOT_FOUND")
}
