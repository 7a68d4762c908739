package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// SubmissionFilter narrows submission listings. A nil FormIDs lists every
// submission; a non-nil empty slice matches nothing.
type SubmissionFilter struct {
	FormIDs []string
}

// SubmissionRepository persists application submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) error
	List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error)
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

const submissionColumns = `id, form_id, applicant_name, responses, submitted_at, status`

func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
        INSERT INTO application_submissions (form_id, applicant_name, responses, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, submitted_at`

	responses := submission.Responses
	if responses == nil {
		responses = map[string]any{}
	}
	return r.pool.QueryRow(ctx, query,
		submission.FormID,
		submission.ApplicantName,
		responses,
		submission.Status,
	).Scan(&submission.ID, &submission.SubmittedAt)
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	return scanSubmission(r.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM application_submissions WHERE id=$1`, id))
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE application_submissions SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	if filter.FormIDs != nil && len(filter.FormIDs) == 0 {
		return []domain.Submission{}, nil
	}

	query := `SELECT ` + submissionColumns + ` FROM application_submissions`
	args := []any{}
	if filter.FormIDs != nil {
		args = append(args, filter.FormIDs)
		query += ` WHERE form_id = ANY($1)`
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *submission)
	}
	return result, rows.Err()
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var submission domain.Submission
	if err := row.Scan(
		&submission.ID,
		&submission.FormID,
		&submission.ApplicantName,
		&submission.Responses,
		&submission.SubmittedAt,
		&submission.Status,
	); err != nil {
		return nil, err
	}
	return &submission, nil
}
