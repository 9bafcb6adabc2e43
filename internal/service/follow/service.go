// Package follow implements the social-graph business logic.
package follow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type followRepo interface {
	Create(ctx context.Context, f *domain.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Followers(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error)
	Following(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error)
}

type agentRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the follow business logic.
type Service struct {
	log     *slog.Logger
	follows followRepo
	agents  agentRepo
}

// NewService creates a new Follow service.
func NewService(logger *slog.Logger, follows followRepo, agents agentRepo) *Service {
	return &Service{
		log:     logger.With("service", "follow"),
		follows: follows,
		agents:  agents,
	}
}

// Follow creates an edge from the caller to the target agent. Following
// yourself or following someone twice both fail.
func (s *Service) Follow(ctx context.Context, targetID uuid.UUID) error {
	followerID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if targetID == uuid.Nil {
		return domain.NewValidationError("target_id", "required")
	}
	if targetID == followerID {
		return domain.NewValidationError("target_id", "cannot follow yourself")
	}

	if _, err := s.agents.GetByID(ctx, targetID); err != nil {
		return err
	}

	err := s.follows.Create(ctx, &domain.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	s.log.DebugContext(ctx, "follow created",
		slog.String("follower_id", followerID.String()),
		slog.String("following_id", targetID.String()),
	)
	return nil
}

// Unfollow removes the caller's edge to the target agent. Removing an edge
// that does not exist fails with ErrNotFound.
func (s *Service) Unfollow(ctx context.Context, targetID uuid.UUID) error {
	followerID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if targetID == uuid.Nil {
		return domain.NewValidationError("target_id", "required")
	}

	removed, err := s.follows.Delete(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}

	s.log.DebugContext(ctx, "follow removed",
		slog.String("follower_id", followerID.String()),
		slog.String("following_id", targetID.String()),
	)
	return nil
}

// Toggle flips the caller's follow edge to the target agent and reports the
// resulting state: true if the caller now follows the target. Delete-first
// decides the direction; a concurrent toggle racing on the unique pair
// surfaces ErrAlreadyExists, and one retry observes the committed edge.
func (s *Service) Toggle(ctx context.Context, targetID uuid.UUID) (bool, error) {
	followerID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if targetID == uuid.Nil {
		return false, domain.NewValidationError("target_id", "required")
	}
	if targetID == followerID {
		return false, domain.NewValidationError("target_id", "cannot follow yourself")
	}

	if _, err := s.agents.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.toggleOnce(ctx, followerID, targetID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		following, err = s.toggleOnce(ctx, followerID, targetID)
	}
	if err != nil {
		return false, err
	}

	s.log.DebugContext(ctx, "follow toggled",
		slog.String("follower_id", followerID.String()),
		slog.String("following_id", targetID.String()),
		slog.Bool("following", following),
	)
	return following, nil
}

func (s *Service) toggleOnce(ctx context.Context, followerID, targetID uuid.UUID) (bool, error) {
	removed, err := s.follows.Delete(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	err = s.follows.Create(ctx, &domain.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsFollowing reports whether the caller follows the target agent.
func (s *Service) IsFollowing(ctx context.Context, targetID uuid.UUID) (bool, error) {
	followerID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	return s.follows.Exists(ctx, followerID, targetID)
}

// Followers returns the agents following the given agent.
func (s *Service) Followers(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error) {
	if _, err := s.agents.GetByID(ctx, agentID); err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, agentID)
}

// Following returns the agents the given agent follows.
func (s *Service) Following(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error) {
	if _, err := s.agents.GetByID(ctx, agentID); err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, agentID)
}
