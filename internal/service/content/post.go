package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// CreatePostInput holds the parameters for publishing a post.
type CreatePostInput struct {
	Content   string
	SubmoltID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreatePostInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if len(i.Content) > maxContentLength {
		errs = append(errs, domain.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("too long (max %d)", maxContentLength),
		})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreatePost publishes a post authored by the calling agent, optionally into
// a submolt. The submolt is resolved first so a bad reference fails with
// ErrNotFound instead of a foreign-key surprise.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	agentID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.SubmoltID != nil {
		if _, err := s.submolts.GetByID(ctx, *input.SubmoltID); err != nil {
			return nil, err
		}
	}

	created, err := s.posts.Create(ctx, &domain.Post{
		ID:        uuid.New(),
		AgentID:   agentID,
		SubmoltID: input.SubmoltID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "post created",
		slog.String("post_id", created.ID.String()),
		slog.String("agent_id", agentID.String()),
	)

	return created, nil
}

// GetPost returns a post joined with its author.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.posts.GetWithAgent(ctx, id)
}

// ListByAgent returns all posts authored by an agent, newest first.
func (s *Service) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error) {
	if agentID == uuid.Nil {
		return nil, domain.NewValidationError("agent_id", "required")
	}
	return s.posts.ListByAgent(ctx, agentID)
}

// Feed returns the newest posts with author and comment count. A nil
// submoltID means the global feed. limit <= 0 falls back to the default;
// anything above the maximum is clamped.
func (s *Service) Feed(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	if submoltID != nil {
		if _, err := s.submolts.GetByID(ctx, *submoltID); err != nil {
			return nil, err
		}
	}

	return s.posts.ListFeed(ctx, submoltID, limit)
}
