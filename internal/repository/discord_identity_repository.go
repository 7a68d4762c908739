package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// DiscordIdentityRepository mirrors Discord users that logged in.
type DiscordIdentityRepository interface {
	Create(ctx context.Context, identity *domain.DiscordIdentity) error
	Update(ctx context.Context, identity *domain.DiscordIdentity) error
	GetByDiscordID(ctx context.Context, discordID string) (*domain.DiscordIdentity, error)
}

type discordIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewDiscordIdentityRepository returns a Postgres-backed implementation.
func NewDiscordIdentityRepository(pool *pgxpool.Pool) DiscordIdentityRepository {
	return &discordIdentityRepository{pool: pool}
}

func (r *discordIdentityRepository) Create(ctx context.Context, identity *domain.DiscordIdentity) error {
	const query = `
        INSERT INTO discord_identities (discord_id, username, avatar, discriminator, is_admin, last_login)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		identity.DiscordID,
		identity.Username,
		identity.Avatar,
		identity.Discriminator,
		identity.IsAdmin,
		identity.LastLogin,
	).Scan(&identity.ID, &identity.CreatedAt)
	return mapWriteError(err)
}

// Update rewrites the mutable profile fields; id and created_at are never touched.
func (r *discordIdentityRepository) Update(ctx context.Context, identity *domain.DiscordIdentity) error {
	const query = `
        UPDATE discord_identities
        SET username=$1, avatar=$2, discriminator=$3, is_admin=$4, last_login=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		identity.Username,
		identity.Avatar,
		identity.Discriminator,
		identity.IsAdmin,
		identity.LastLogin,
		identity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *discordIdentityRepository) GetByDiscordID(ctx context.Context, discordID string) (*domain.DiscordIdentity, error) {
	const query = `
        SELECT id, discord_id, username, avatar, discriminator, is_admin, created_at, last_login
        FROM discord_identities WHERE discord_id=$1`

	var identity domain.DiscordIdentity
	if err := r.pool.QueryRow(ctx, query, discordID).Scan(
		&identity.ID,
		&identity.DiscordID,
		&identity.Username,
		&identity.Avatar,
		&identity.Discriminator,
		&identity.IsAdmin,
		&identity.CreatedAt,
		&identity.LastLogin,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}
