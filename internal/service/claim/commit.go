package claim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

const minPasswordLength = 8

// CommitInput holds the parameters for consuming a claim token.
type CommitInput struct {
	Token    string
	Password string
}

// Validate checks all fields and collects all errors.
func (i CommitInput) Validate() error {
	var errs []domain.FieldError

	if i.Token == "" {
		errs = append(errs, domain.FieldError{Field: "token", Message: "required"})
	}

	if len(i.Password) < minPasswordLength {
		errs = append(errs, domain.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		})
	}
	if len(i.Password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long (max 72)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Commit consumes a claim token: it sets the agent's credential, activates
// the agent, and marks the token claimed, all in one transaction. The
// claimed flag flips at most once; a second commit with the same token fails
// with domain.ErrAlreadyClaimed no matter how close the two calls race.
func (s *Service) Commit(ctx context.Context, input CommitInput) (*domain.Agent, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var agent *domain.Agent

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.claims.GetByToken(txCtx, input.Token)
		if err != nil {
			return err
		}
		if t.Claimed {
			return domain.ErrAlreadyClaimed
		}
		if t.IsExpired(s.now()) {
			return domain.ErrExpired
		}

		// The conditional update is the authoritative gate: only one
		// transaction observes the false→true flip.
		won, err := s.claims.Consume(txCtx, input.Token)
		if err != nil {
			return fmt.Errorf("consume token: %w", err)
		}
		if !won {
			return domain.ErrAlreadyClaimed
		}

		if err := s.agents.SetPassword(txCtx, t.AgentID, hash); err != nil {
			return fmt.Errorf("set password: %w", err)
		}
		if err := s.agents.UpdateStatus(txCtx, t.AgentID, domain.AgentStatusActive); err != nil {
			return fmt.Errorf("activate agent: %w", err)
		}

		agent, err = s.agents.GetByID(txCtx, t.AgentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "agent claimed",
		slog.String("agent_id", agent.ID.String()),
		slog.String("username", agent.Username),
	)

	return agent, nil
}
