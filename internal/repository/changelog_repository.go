package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// ChangelogRepository persists release notes.
type ChangelogRepository interface {
	Create(ctx context.Context, changelog *domain.Changelog) error
	Update(ctx context.Context, changelog *domain.Changelog) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Changelog, error)
	// List returns newest first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.Changelog, error)
}

type changelogRepository struct {
	pool *pgxpool.Pool
}

// NewChangelogRepository instantiates the repository.
func NewChangelogRepository(pool *pgxpool.Pool) ChangelogRepository {
	return &changelogRepository{pool: pool}
}

const changelogColumns = `id, title, content, version, created_at, created_by`

func (r *changelogRepository) Create(ctx context.Context, changelog *domain.Changelog) error {
	const query = `
        INSERT INTO changelogs (title, content, version, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		changelog.Title,
		changelog.Content,
		changelog.Version,
		changelog.CreatedBy,
	).Scan(&changelog.ID, &changelog.CreatedAt)
}

func (r *changelogRepository) Update(ctx context.Context, changelog *domain.Changelog) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE changelogs SET title=$1, content=$2, version=$3 WHERE id=$4`,
		changelog.Title,
		changelog.Content,
		changelog.Version,
		changelog.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *changelogRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM changelogs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *changelogRepository) GetByID(ctx context.Context, id string) (*domain.Changelog, error) {
	return scanChangelog(r.pool.QueryRow(ctx, `SELECT `+changelogColumns+` FROM changelogs WHERE id=$1`, id))
}

func (r *changelogRepository) List(ctx context.Context, limit int) ([]domain.Changelog, error) {
	query := `SELECT ` + changelogColumns + ` FROM changelogs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Changelog
	for rows.Next() {
		changelog, err := scanChangelog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *changelog)
	}
	return result, rows.Err()
}

func scanChangelog(row pgx.Row) (*domain.Changelog, error) {
	var changelog domain.Changelog
	if err := row.Scan(
		&changelog.ID,
		&changelog.Title,
		&changelog.Content,
		&changelog.Version,
		&changelog.CreatedAt,
		&changelog.CreatedBy,
	); err != nil {
		return nil, err
	}
	return &changelog, nil
}
