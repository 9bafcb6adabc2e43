// Package claim implements the claim-token repository using PostgreSQL.
package claim

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

var columns = []string{"id", "token", "agent_id", "owner_email", "claimed", "expires_at", "created_at"}

// Repo provides claim-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new claim-token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new claim token.
func (r *Repo) Create(ctx context.Context, t *domain.ClaimToken) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("claim_tokens").
		Columns("id", "token", "agent_id", "owner_email", "expires_at", "created_at").
		Values(t.ID, t.Token, t.AgentID, t.OwnerEmail, t.ExpiresAt, t.CreatedAt).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "claim token", t.ID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "claim token", t.ID)
	}
	return nil
}

// GetByToken returns a claim token by its opaque token string.
func (r *Repo) GetByToken(ctx context.Context, token string) (*domain.ClaimToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("claim_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "claim token", uuid.Nil)
	}

	var t domain.ClaimToken
	err = q.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.Token, &t.AgentID, &t.OwnerEmail, &t.Claimed, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "claim token", uuid.Nil)
	}
	return &t, nil
}

// GetByAgent returns the most recent token minted for an agent.
func (r *Repo) GetByAgent(ctx context.Context, agentID uuid.UUID) (*domain.ClaimToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("claim_tokens").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "claim token", uuid.Nil)
	}

	var t domain.ClaimToken
	err = q.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.Token, &t.AgentID, &t.OwnerEmail, &t.Claimed, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "claim token", uuid.Nil)
	}
	return &t, nil
}

// Consume flips claimed false→true and reports whether this call won the
// flip. The WHERE claimed = false guard makes the transition single-use even
// under concurrent commits: exactly one caller sees true.
func (r *Repo) Consume(ctx context.Context, token string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("claim_tokens").
		Set("claimed", true).
		Where(squirrel.Eq{"token": token, "claimed": false}).
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "claim token", uuid.Nil)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "claim token", uuid.Nil)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteExpiredUnclaimed removes tokens that are past expiry and were never
// claimed, returning the number removed. Claimed tokens are kept as an audit
// trail.
func (r *Repo) DeleteExpiredUnclaimed(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Delete("claim_tokens").
		Where(squirrel.Expr("expires_at < now()")).
		Where(squirrel.Eq{"claimed": false}).
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "claim token", uuid.Nil)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "claim token", uuid.Nil)
	}
	return tag.RowsAffected(), nil
}
