package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// ToggleInput holds the parameters for toggling a vote on a target.
type ToggleInput struct {
	TargetID uuid.UUID
	Kind     domain.TargetKind
}

// Validate checks all fields and collects all errors.
func (i ToggleInput) Validate() error {
	var errs []domain.FieldError

	if i.TargetID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "target_id", Message: "required"})
	}

	if !i.Kind.Valid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be post or comment"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	// Voted is true when the toggle recorded a vote, false when it removed one.
	Voted bool
	// Upvotes is the target's vote counter after the toggle.
	Upvotes int
}

// Toggle flips the caller's vote on a target. Voting increments the target's
// counter and the author's karma by one; unvoting decrements both. All three
// writes happen in a single transaction, so the ledger and the derived
// counters never diverge.
//
// Two clients toggling the same (voter, target) at once race on the unique
// ledger index. The loser of an insert race re-runs the decision once, which
// turns the pair of requests into a vote followed by an unvote.
func (s *Service) Toggle(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	voterID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	result, err := s.toggleOnce(ctx, voterID, input)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost an insert race: a concurrent toggle created the vote first.
		// Re-running the decision sees the live row and removes it.
		result, err = s.toggleOnce(ctx, voterID, input)
	}
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "vote toggled",
		slog.String("voter_id", voterID.String()),
		slog.String("target_id", input.TargetID.String()),
		slog.String("kind", input.Kind.String()),
		slog.Bool("voted", result.Voted),
	)

	return result, nil
}

// toggleOnce runs one toggle attempt in its own transaction.
func (s *Service) toggleOnce(ctx context.Context, voterID uuid.UUID, input ToggleInput) (*ToggleResult, error) {
	var result ToggleResult

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		authorID, upvotes, err := s.loadTarget(txCtx, input.TargetID, input.Kind)
		if err != nil {
			return err
		}

		removed, err := s.votes.Delete(txCtx, voterID, input.TargetID, input.Kind)
		if err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}

		delta := 1
		if removed {
			delta = -1
		} else {
			if err := s.votes.Insert(txCtx, voterID, input.TargetID, input.Kind); err != nil {
				return err
			}
		}

		if err := s.adjustCounter(txCtx, input.TargetID, input.Kind, delta); err != nil {
			return fmt.Errorf("adjust counter: %w", err)
		}
		if err := s.agents.AdjustKarma(txCtx, authorID, delta); err != nil {
			return fmt.Errorf("adjust karma: %w", err)
		}

		result.Voted = !removed
		result.Upvotes = upvotes + delta
		if result.Upvotes < 0 {
			result.Upvotes = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasVoted reports whether the calling agent has a live vote on the target.
func (s *Service) HasVoted(ctx context.Context, targetID uuid.UUID, kind domain.TargetKind) (bool, error) {
	voterID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	if !kind.Valid() {
		return false, domain.NewValidationError("kind", "must be post or comment")
	}
	return s.votes.Exists(ctx, voterID, targetID, kind)
}

// loadTarget resolves the vote target, returning its author and current
// counter. A missing target maps to domain.ErrNotFound via the repository.
func (s *Service) loadTarget(ctx context.Context, targetID uuid.UUID, kind domain.TargetKind) (uuid.UUID, int, error) {
	if kind == domain.TargetComment {
		c, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, 0, err
		}
		return c.AgentID, c.Upvotes, nil
	}
	p, err := s.posts.GetByID(ctx, targetID)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return p.AgentID, p.Upvotes, nil
}

func (s *Service) adjustCounter(ctx context.Context, targetID uuid.UUID, kind domain.TargetKind, delta int) error {
	if kind == domain.TargetComment {
		return s.comments.AdjustUpvotes(ctx, targetID, delta)
	}
	return s.posts.AdjustUpvotes(ctx, targetID, delta)
}
