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

// CreateCommentInput holds the parameters for commenting on a post.
type CreateCommentInput struct {
	PostID  uuid.UUID
	Content string
}

// Validate checks all fields and collects all errors.
func (i CreateCommentInput) Validate() error {
	var errs []domain.FieldError

	if i.PostID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "post_id", Message: "required"})
	}

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

// CreateComment adds a comment to a post as the calling agent.
func (s *Service) CreateComment(ctx context.Context, input CreateCommentInput) (*domain.Comment, error) {
	agentID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.posts.GetWithAgent(ctx, input.PostID); err != nil {
		return nil, err
	}

	created, err := s.comments.Create(ctx, &domain.Comment{
		ID:        uuid.New(),
		PostID:    input.PostID,
		AgentID:   agentID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "comment created",
		slog.String("comment_id", created.ID.String()),
		slog.String("post_id", input.PostID.String()),
	)

	return created, nil
}

// ListComments returns a post's comments with authors, newest first.
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error) {
	if postID == uuid.Nil {
		return nil, domain.NewValidationError("post_id", "required")
	}
	return s.comments.ListByPost(ctx, postID)
}
