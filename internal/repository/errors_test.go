package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	other := errors.New("connection reset")
	fkViolation := &pgconn.PgError{Code: "23503", ConstraintName: "application_submissions_form_id_fkey"}

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolation, ConstraintName: "admin_users_username_key"}, want: ErrDuplicate},
		{name: "wrapped unique violation", err: fmt.Errorf("insert account: %w", &pgconn.PgError{Code: uniqueViolation}), want: ErrDuplicate},
		{name: "other pg error", err: fkViolation, want: fkViolation},
		{name: "no rows", err: pgx.ErrNoRows, want: pgx.ErrNoRows},
		{name: "plain error", err: other, want: other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapWriteError(tc.err)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("get form: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(ErrDuplicate))
	assert.False(t, IsNotFound(nil))
}
