// Package vote implements the vote-ledger repository using PostgreSQL.
//
// The ledger is the source of truth for upvote state; the cached counters on
// posts/comments and the karma on agents are derived from it. Both mutating
// primitives here are designed to run inside a transaction together with the
// counter adjustments, so that no reader ever observes a ledger row without
// its counter effects or vice versa.
package vote

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

// Repo provides vote-ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// targetColumn maps the target kind to the ledger column holding its ID.
func targetColumn(kind domain.TargetKind) string {
	if kind == domain.TargetComment {
		return "comment_id"
	}
	return "post_id"
}

// Insert records a live vote for (voter, target). The partial unique index
// on the pair makes a concurrent duplicate insert fail with
// domain.ErrAlreadyExists, which the service layer uses to detect a lost
// toggle race.
func (r *Repo) Insert(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("upvotes").
		Columns("id", "agent_id", targetColumn(kind)).
		Values(uuid.New(), voterID, targetID).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "vote", targetID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "vote", targetID)
	}
	return nil
}

// Delete removes the live vote for (voter, target) and reports whether a row
// was actually deleted. The rows-affected result is the toggle decision: a
// concurrent toggle that already removed the row makes this return false.
func (r *Repo) Delete(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Delete("upvotes").
		Where(squirrel.Eq{"agent_id": voterID, targetColumn(kind): targetID}).
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "vote", targetID)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "vote", targetID)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether a live vote exists for (voter, target).
func (r *Repo) Exists(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select("1").
		From("upvotes").
		Where(squirrel.Eq{"agent_id": voterID, targetColumn(kind): targetID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "vote", targetID)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "vote", targetID)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, postgres.MapError(err, "vote", targetID)
	}
	return exists, nil
}

// CountForTarget returns the number of live ledger rows for a target. Used
// by reconciliation checks, not by the hot read path (which reads the cached
// counter on the content row).
func (r *Repo) CountForTarget(ctx context.Context, targetID uuid.UUID, kind domain.TargetKind) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select("COUNT(*)").
		From("upvotes").
		Where(squirrel.Eq{targetColumn(kind): targetID}).
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "vote", targetID)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "vote", targetID)
	}
	return count, nil
}
