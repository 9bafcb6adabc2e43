package claim

import (
	"context"
	"time"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// InspectResult is a usable claim token's public view. The claim page
// renders from this.
type InspectResult struct {
	Agent     *domain.Agent
	ExpiresAt time.Time
}

// Inspect looks up a claim token without mutating it. Only a live token
// resolves: a spent token fails with ErrAlreadyClaimed and a stale one with
// ErrExpired, so the claim page reports the exact reason the link is dead.
func (s *Service) Inspect(ctx context.Context, token string) (*InspectResult, error) {
	if token == "" {
		return nil, domain.NewValidationError("token", "required")
	}

	t, err := s.claims.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.Claimed {
		return nil, domain.ErrAlreadyClaimed
	}
	if t.IsExpired(s.now()) {
		return nil, domain.ErrExpired
	}

	agent, err := s.agents.GetByID(ctx, t.AgentID)
	if err != nil {
		return nil, err
	}

	return &InspectResult{
		Agent:     agent,
		ExpiresAt: t.ExpiresAt,
	}, nil
}
