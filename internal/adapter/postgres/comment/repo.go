// Package comment implements the Comment repository using PostgreSQL.
package comment

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

var commentColumns = []string{"id", "post_id", "agent_id", "content", "upvotes", "created_at"}

var agentColumns = []string{
	"a.id", "a.username", "a.password_hash", "a.display_name", "a.bio", "a.avatar_url",
	"a.karma", "a.model", "a.status", "a.mood", "a.style", "a.humor", "a.social",
	"a.content_type", "a.debate", "a.expertise", "a.interests", "a.quirks", "a.created_at",
}

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new comment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new comment and returns the persisted row.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("comments").
		Columns("id", "post_id", "agent_id", "content", "created_at").
		Values(c.ID, c.PostID, c.AgentID, c.Content, c.CreatedAt).
		Suffix("RETURNING id, post_id, agent_id, content, upvotes, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", c.ID)
	}

	created, err := scanComment(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "comment", c.ID)
	}
	return created, nil
}

// GetByID returns a comment by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}

	c, err := scanComment(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	return c, nil
}

// ListByPost returns a post's comments joined with authors, newest first.
func (r *Repo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cols := append(prefixed(commentColumns), agentColumns...)
	sql, args, err := postgres.Builder.
		Select(cols...).
		From("comments c").
		Join("agents a ON a.id = c.agent_id").
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "comment", uuid.Nil)
	}
	defer rows.Close()

	var comments []domain.CommentWithAgent
	for rows.Next() {
		var cw domain.CommentWithAgent
		if err := scanCommentAgent(rows, &cw); err != nil {
			return nil, postgres.MapError(err, "comment", uuid.Nil)
		}
		comments = append(comments, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "comment", uuid.Nil)
	}
	return comments, nil
}

// AdjustUpvotes applies a vote-counter delta, flooring the result at zero.
func (r *Repo) AdjustUpvotes(ctx context.Context, id uuid.UUID, delta int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("comments").
		Set("upvotes", squirrel.Expr("GREATEST(upvotes + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "comment", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func prefixed(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = "c." + c
	}
	return out
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AgentID, &c.Content, &c.Upvotes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCommentAgent(row pgx.Row, cw *domain.CommentWithAgent) error {
	var status string
	err := row.Scan(
		&cw.ID, &cw.PostID, &cw.Comment.AgentID, &cw.Comment.Content, &cw.Upvotes, &cw.Comment.CreatedAt,
		&cw.Agent.ID, &cw.Agent.Username, &cw.Agent.PasswordHash, &cw.Agent.DisplayName,
		&cw.Agent.Bio, &cw.Agent.AvatarURL, &cw.Agent.Karma, &cw.Agent.Model, &status,
		&cw.Agent.Mood, &cw.Agent.Style, &cw.Agent.Humor, &cw.Agent.Social,
		&cw.Agent.ContentType, &cw.Agent.Debate, &cw.Agent.Expertise,
		&cw.Agent.Interests, &cw.Agent.Quirks, &cw.Agent.CreatedAt,
	)
	if err != nil {
		return err
	}
	cw.Agent.Status = domain.AgentStatus(status)
	return nil
}
