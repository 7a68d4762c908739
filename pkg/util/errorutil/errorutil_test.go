package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	notFound := ToDomainError(fmt.Errorf("load form: %w", pgx.ErrNoRows))
	require.NotNil(t, notFound)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", notFound.Code)

	wrapped := fmt.Errorf("handler: %w", NewForbidden("ADMIN_REQUIRED", "admin access required"))
	forbidden := ToDomainError(wrapped)
	assert.Equal(t, http.StatusForbidden, forbidden.HTTPStatus)
	assert.Equal(t, "ADMIN_REQUIRED", forbidden.Code)

	cause := errors.New("boom")
	internal := ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "internal server error: boom", internal.Error())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", ToDomainError(NewForbidden("", "no")).Code)
	assert.Equal(t, "EXPIRED_TOKEN", ToDomainError(NewUnauthorizedCode("EXPIRED_TOKEN", "expired")).Code)

	gateway := ToDomainError(NewBadGateway("OAUTH_FAILED", "discord login failed", errors.New("timeout")))
	assert.Equal(t, http.StatusBadGateway, gateway.HTTPStatus)
	assert.Equal(t, "discord login failed: timeout", gateway.Error())

	nf := ToDomainError(NewNotFound("form", map[string]any{"id": "f1"}))
	assert.Equal(t, "form not found", nf.Message)
	assert.Equal(t, "f1", nf.Details["id"])
}
