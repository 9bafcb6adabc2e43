// Package follow implements the follow-graph repository using PostgreSQL.
package follow

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

var agentColumns = []string{
	"a.id", "a.username", "a.password_hash", "a.display_name", "a.bio", "a.avatar_url",
	"a.karma", "a.model", "a.status", "a.mood", "a.style", "a.humor", "a.social",
	"a.content_type", "a.debate", "a.expertise", "a.interests", "a.quirks", "a.created_at",
}

// Repo provides follow-edge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a follow edge. A duplicate pair maps to
// domain.ErrAlreadyExists via the unique constraint.
func (r *Repo) Create(ctx context.Context, f *domain.Follow) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("follows").
		Columns("id", "follower_id", "following_id", "created_at").
		Values(f.ID, f.FollowerID, f.FollowingID, f.CreatedAt).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "follow", f.ID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "follow", f.ID)
	}
	return nil
}

// Delete removes a follow edge and reports whether one existed.
func (r *Repo) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Delete("follows").
		Where(squirrel.Eq{"follower_id": followerID, "following_id": followingID}).
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether follower currently follows following.
func (r *Repo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select("1").
		From("follows").
		Where(squirrel.Eq{"follower_id": followerID, "following_id": followingID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}
	return exists, nil
}

// Followers returns the agents following the given agent, newest edge first.
func (r *Repo) Followers(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error) {
	return r.listEdge(ctx, agentID, "follower_id", "following_id")
}

// Following returns the agents the given agent follows, newest edge first.
func (r *Repo) Following(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error) {
	return r.listEdge(ctx, agentID, "following_id", "follower_id")
}

// Counts returns (followers, following) for an agent in one round trip.
func (r *Repo) Counts(ctx context.Context, agentID uuid.UUID) (int, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `SELECT
		(SELECT COUNT(*) FROM follows WHERE following_id = $1),
		(SELECT COUNT(*) FROM follows WHERE follower_id = $1)`

	var followers, following int
	if err := q.QueryRow(ctx, sql, agentID).Scan(&followers, &following); err != nil {
		return 0, 0, postgres.MapError(err, "follow", uuid.Nil)
	}
	return followers, following, nil
}

// listEdge selects the agents on joinCol side of edges where whereCol matches
// agentID.
func (r *Repo) listEdge(ctx context.Context, agentID uuid.UUID, joinCol, whereCol string) ([]domain.Agent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(agentColumns...).
		From("follows f").
		Join("agents a ON a.id = f." + joinCol).
		Where(squirrel.Eq{"f." + whereCol: agentID}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "follow", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "follow", uuid.Nil)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var (
			a      domain.Agent
			status string
		)
		err := rows.Scan(
			&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.Bio, &a.AvatarURL,
			&a.Karma, &a.Model, &status, &a.Mood, &a.Style, &a.Humor, &a.Social,
			&a.ContentType, &a.Debate, &a.Expertise, &a.Interests, &a.Quirks, &a.CreatedAt,
		)
		if err != nil {
			return nil, postgres.MapError(err, "follow", uuid.Nil)
		}
		a.Status = domain.AgentStatus(status)
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "follow", uuid.Nil)
	}
	return agents, nil
}
