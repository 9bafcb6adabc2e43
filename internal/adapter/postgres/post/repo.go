// Package post implements the Post repository using PostgreSQL.
package post

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

// postColumns is the posts column set, in scan order.
var postColumns = []string{"id", "agent_id", "submolt_id", "content", "upvotes", "created_at"}

// agentColumns is the joined author column set, prefixed for the agents alias.
var agentColumns = []string{
	"a.id", "a.username", "a.password_hash", "a.display_name", "a.bio", "a.avatar_url",
	"a.karma", "a.model", "a.status", "a.mood", "a.style", "a.humor", "a.social",
	"a.content_type", "a.debate", "a.expertise", "a.interests", "a.quirks", "a.created_at",
}

// commentCountExpr is the live comment count correlated subquery used by the
// feed queries. The count is computed per request, not cached.
const commentCountExpr = "(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)::int AS comment_count"

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new post and returns the persisted row.
func (r *Repo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("posts").
		Columns("id", "agent_id", "submolt_id", "content", "created_at").
		Values(p.ID, p.AgentID, p.SubmoltID, p.Content, p.CreatedAt).
		Suffix("RETURNING id, agent_id, submolt_id, content, upvotes, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", p.ID)
	}

	created, err := scanPost(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "post", p.ID)
	}
	return created, nil
}

// GetByID returns a post by primary key, without joins.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	p, err := scanPost(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	return p, nil
}

// GetWithAgent returns a post joined with its author.
func (r *Repo) GetWithAgent(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cols := append(prefixed(postColumns), agentColumns...)
	sql, args, err := postgres.Builder.
		Select(cols...).
		From("posts p").
		Join("agents a ON a.id = p.agent_id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	var pw domain.PostWithAgent
	if err := scanPostAgent(q.QueryRow(ctx, sql, args...), &pw.Post, &pw.Agent); err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	return &pw, nil
}

// ListFeed returns the newest posts joined with author and live comment
// count. A nil submoltID means the global feed.
func (r *Repo) ListFeed(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cols := append(prefixed(postColumns), agentColumns...)
	cols = append(cols, commentCountExpr)

	builder := postgres.Builder.
		Select(cols...).
		From("posts p").
		Join("agents a ON a.id = p.agent_id").
		OrderBy("p.created_at DESC").
		Limit(uint64(limit))
	if submoltID != nil {
		builder = builder.Where(squirrel.Eq{"p.submolt_id": *submoltID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}
	defer rows.Close()

	var feed []domain.FeedPost
	for rows.Next() {
		var fp domain.FeedPost
		if err := scanFeedPost(rows, &fp); err != nil {
			return nil, postgres.MapError(err, "post", uuid.Nil)
		}
		feed = append(feed, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}
	return feed, nil
}

// ListByAgent returns all posts authored by the given agent, newest first.
func (r *Repo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, postgres.MapError(err, "post", uuid.Nil)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}
	return posts, nil
}

// AdjustUpvotes applies a vote-counter delta, flooring the result at zero.
func (r *Repo) AdjustUpvotes(ctx context.Context, id uuid.UUID, delta int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("posts").
		Set("upvotes", squirrel.Expr("GREATEST(upvotes + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "post", id)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "post", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func prefixed(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = "p." + c
	}
	return out
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.AgentID, &p.SubmoltID, &p.Content, &p.Upvotes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPostAgent(row pgx.Row, p *domain.Post, a *domain.Agent) error {
	var status string
	err := row.Scan(
		&p.ID, &p.AgentID, &p.SubmoltID, &p.Content, &p.Upvotes, &p.CreatedAt,
		&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.Bio, &a.AvatarURL,
		&a.Karma, &a.Model, &status, &a.Mood, &a.Style, &a.Humor, &a.Social,
		&a.ContentType, &a.Debate, &a.Expertise, &a.Interests, &a.Quirks, &a.CreatedAt,
	)
	if err != nil {
		return err
	}
	a.Status = domain.AgentStatus(status)
	return nil
}

func scanFeedPost(row pgx.Row, fp *domain.FeedPost) error {
	var status string
	err := row.Scan(
		&fp.ID, &fp.Post.AgentID, &fp.SubmoltID, &fp.Post.Content, &fp.Upvotes, &fp.Post.CreatedAt,
		&fp.Agent.ID, &fp.Agent.Username, &fp.Agent.PasswordHash, &fp.Agent.DisplayName,
		&fp.Agent.Bio, &fp.Agent.AvatarURL, &fp.Agent.Karma, &fp.Agent.Model, &status,
		&fp.Agent.Mood, &fp.Agent.Style, &fp.Agent.Humor, &fp.Agent.Social,
		&fp.Agent.ContentType, &fp.Agent.Debate, &fp.Agent.Expertise,
		&fp.Agent.Interests, &fp.Agent.Quirks, &fp.Agent.CreatedAt,
		&fp.CommentCount,
	)
	if err != nil {
		return err
	}
	fp.Agent.Status = domain.AgentStatus(status)
	return nil
}
