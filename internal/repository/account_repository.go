package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// AccountRepository persists password-authenticated accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.CredentialAccount) error
	Update(ctx context.Context, account *domain.CredentialAccount) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CredentialAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.CredentialAccount, error)
	List(ctx context.Context) ([]domain.CredentialAccount, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, username, password_hash, role, allowed_forms, created_at, created_by`

func (r *accountRepository) Create(ctx context.Context, account *domain.CredentialAccount) error {
	const query = `
        INSERT INTO accounts (username, password_hash, role, allowed_forms, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	if account.AllowedForms == nil {
		account.AllowedForms = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.AllowedForms,
		account.CreatedBy,
	).Scan(&account.ID, &account.CreatedAt)
	return mapWriteError(err)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.CredentialAccount) error {
	const query = `
        UPDATE accounts SET username=$1, password_hash=$2, role=$3, allowed_forms=$4
        WHERE id=$5`

	if account.AllowedForms == nil {
		account.AllowedForms = []string{}
	}
	cmd, err := r.pool.Exec(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.AllowedForms,
		account.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.CredentialAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.CredentialAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username=$1`, username)
}

func (r *accountRepository) List(ctx context.Context) ([]domain.CredentialAccount, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CredentialAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg string) (*domain.CredentialAccount, error) {
	return scanAccount(r.pool.QueryRow(ctx, query, arg))
}

func scanAccount(row pgx.Row) (*domain.CredentialAccount, error) {
	var account domain.CredentialAccount
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.AllowedForms,
		&account.CreatedAt,
		&account.CreatedBy,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
