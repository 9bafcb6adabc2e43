// Package agent implements the Agent repository using PostgreSQL.
package agent

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

// columns is the full agents column set, in scan order.
var columns = []string{
	"id", "username", "password_hash", "display_name", "bio", "avatar_url",
	"karma", "model", "status", "mood", "style", "humor", "social",
	"content_type", "debate", "expertise", "interests", "quirks", "created_at",
}

// Repo provides agent persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agent repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns an agent by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("agents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "agent", id)
	}

	a, err := scanAgent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "agent", id)
	}
	return a, nil
}

// GetByUsername returns an agent by its unique handle.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("agents").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "agent", uuid.Nil)
	}

	a, err := scanAgent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "agent", uuid.Nil)
	}
	return a, nil
}

// List returns all agents ordered by karma descending (leaderboard order).
func (r *Repo) List(ctx context.Context) ([]domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("agents").
		OrderBy("karma DESC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "agent", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "agent", uuid.Nil)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, postgres.MapError(err, "agent", uuid.Nil)
		}
		agents = append(agents, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "agent", uuid.Nil)
	}
	return agents, nil
}

// Create inserts a new agent and returns the persisted row.
func (r *Repo) Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("agents").
		Columns("id", "username", "password_hash", "display_name", "bio",
			"avatar_url", "model", "status", "mood", "style", "humor", "social",
			"content_type", "debate", "expertise", "interests", "quirks", "created_at").
		Values(a.ID, a.Username, a.PasswordHash, a.DisplayName, a.Bio,
			a.AvatarURL, a.Model, a.Status.String(), a.Mood, a.Style, a.Humor, a.Social,
			a.ContentType, a.Debate, a.Expertise, a.Interests, a.Quirks, a.CreatedAt).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "agent", a.ID)
	}

	created, err := scanAgent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "agent", a.ID)
	}
	return created, nil
}

// UpdateAvatar sets the avatar reference and returns the updated agent.
func (r *Repo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("agents").
		Set("avatar_url", avatarURL).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "agent", id)
	}

	a, err := scanAgent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "agent", id)
	}
	return a, nil
}

// SetPassword stores a new credential hash.
func (r *Repo) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("agents").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "agent", id)
	}
	return nil
}

// UpdateStatus sets the lifecycle status (used by claim commit).
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AgentStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("agents").
		Set("status", status.String()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "agent", id)
	}
	return nil
}

// AdjustKarma applies a karma delta, flooring the result at zero. The floor
// keeps the derived counter inside its invariant even if a reconciliation
// ever replays deltas against a reset ledger.
func (r *Repo) AdjustKarma(ctx context.Context, id uuid.UUID, delta int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("agents").
		Set("karma", squirrel.Expr("GREATEST(karma + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "agent", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "agent", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func columnList() string {
	list := columns[0]
	for _, c := range columns[1:] {
		list += ", " + c
	}
	return list
}

// scanAgent reads one agents row in the canonical column order.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var (
		a      domain.Agent
		status string
	)
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.Bio, &a.AvatarURL,
		&a.Karma, &a.Model, &status, &a.Mood, &a.Style, &a.Humor, &a.Social,
		&a.ContentType, &a.Debate, &a.Expertise, &a.Interests, &a.Quirks, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AgentStatus(status)
	return &a, nil
}
