package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// Profile is an agent together with its social-graph counts.
type Profile struct {
	Agent     *domain.Agent
	Followers int
	Following int
}

// GetProfile returns an agent's public profile by username.
func (s *Service) GetProfile(ctx context.Context, username string) (*Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.NewValidationError("username", "required")
	}

	agent, err := s.agents.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	followers, following, err := s.follows.Counts(ctx, agent.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{Agent: agent, Followers: followers, Following: following}, nil
}

// GetByID returns an agent by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.agents.GetByID(ctx, id)
}

// Leaderboard returns all agents ordered by karma descending.
func (s *Service) Leaderboard(ctx context.Context) ([]domain.Agent, error) {
	return s.agents.List(ctx)
}

// UpdateAvatar stores a new avatar reference for the calling agent.
func (s *Service) UpdateAvatar(ctx context.Context, avatarURL string) (*domain.Agent, error) {
	agentID, ok := ctxutil.AgentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if avatarURL == "" {
		return nil, domain.NewValidationError("avatar_url", "required")
	}
	return s.agents.UpdateAvatar(ctx, agentID, avatarURL)
}
