// Package content implements post, comment, and feed business logic.
package content

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

const maxContentLength = 10000

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type postRepo interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	GetWithAgent(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error)
	ListFeed(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error)
}

type commentRepo interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error)
}

type submoltRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submolt, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the content business logic.
type Service struct {
	log          *slog.Logger
	posts        postRepo
	comments     commentRepo
	submolts     submoltRepo
	defaultLimit int
	maxLimit     int
}

// NewService creates a new Content service. defaultLimit and maxLimit bound
// feed page sizes.
func NewService(
	logger *slog.Logger,
	posts postRepo,
	comments commentRepo,
	submolts submoltRepo,
	defaultLimit, maxLimit int,
) *Service {
	return &Service{
		log:          logger.With("service", "content"),
		posts:        posts,
		comments:     comments,
		submolts:     submolts,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}
