package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// FormRepository persists application forms.
type FormRepository interface {
	Create(ctx context.Context, form *domain.ApplicationForm) error
	Update(ctx context.Context, form *domain.ApplicationForm) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ApplicationForm, error)
	List(ctx context.Context, activeOnly bool) ([]domain.ApplicationForm, error)
}

type formRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository instantiates the repository.
func NewFormRepository(pool *pgxpool.Pool) FormRepository {
	return &formRepository{pool: pool}
}

const formColumns = `id, title, description, position, fields, webhook_url, is_active, created_at, created_by`

func (r *formRepository) Create(ctx context.Context, form *domain.ApplicationForm) error {
	const query = `
        INSERT INTO application_forms (title, description, position, fields, webhook_url, is_active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		form.Title,
		form.Description,
		form.Position,
		fieldsOrEmpty(form.Fields),
		form.WebhookURL,
		form.IsActive,
		form.CreatedBy,
	).Scan(&form.ID, &form.CreatedAt)
}

func (r *formRepository) Update(ctx context.Context, form *domain.ApplicationForm) error {
	const query = `
        UPDATE application_forms
        SET title=$1, description=$2, position=$3, fields=$4, webhook_url=$5, is_active=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		form.Title,
		form.Description,
		form.Position,
		fieldsOrEmpty(form.Fields),
		form.WebhookURL,
		form.IsActive,
		form.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM application_forms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *formRepository) GetByID(ctx context.Context, id string) (*domain.ApplicationForm, error) {
	return scanForm(r.pool.QueryRow(ctx, `SELECT `+formColumns+` FROM application_forms WHERE id=$1`, id))
}

func (r *formRepository) List(ctx context.Context, activeOnly bool) ([]domain.ApplicationForm, error) {
	query := `SELECT ` + formColumns + ` FROM application_forms`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ApplicationForm
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *form)
	}
	return result, rows.Err()
}

func scanForm(row pgx.Row) (*domain.ApplicationForm, error) {
	var form domain.ApplicationForm
	if err := row.Scan(
		&form.ID,
		&form.Title,
		&form.Description,
		&form.Position,
		&form.Fields,
		&form.WebhookURL,
		&form.IsActive,
		&form.CreatedAt,
		&form.CreatedBy,
	); err != nil {
		return nil, err
	}
	return &form, nil
}

func fieldsOrEmpty(fields []domain.FormField) []domain.FormField {
	if fields == nil {
		return []domain.FormField{}
	}
	return fields
}
