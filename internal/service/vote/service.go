// Package vote implements the upvote toggle business logic.
//
// A toggle is the only way vote state changes: it either records a vote or
// removes the voter's existing one. The ledger row, the denormalized counter
// on the target, and the author's karma always move together inside one
// transaction.
package vote

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type voteRepo interface {
	Insert(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) error
	Delete(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) (bool, error)
	Exists(ctx context.Context, voterID, targetID uuid.UUID, kind domain.TargetKind) (bool, error)
}

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	AdjustUpvotes(ctx context.Context, id uuid.UUID, delta int) error
}

type commentRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	AdjustUpvotes(ctx context.Context, id uuid.UUID, delta int) error
}

type agentRepo interface {
	AdjustKarma(ctx context.Context, id uuid.UUID, delta int) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the vote toggle business logic.
type Service struct {
	log      *slog.Logger
	votes    voteRepo
	posts    postRepo
	comments commentRepo
	agents   agentRepo
	tx       txManager
}

// NewService creates a new Vote service.
func NewService(
	logger *slog.Logger,
	votes voteRepo,
	posts postRepo,
	comments commentRepo,
	agents agentRepo,
	tx txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "vote"),
		votes:    votes,
		posts:    posts,
		comments: comments,
		agents:   agents,
		tx:       tx,
	}
}
