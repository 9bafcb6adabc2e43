package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

// LoginInput holds the parameters for password login.
type LoginInput struct {
	Username string
	Password string
}

// Validate checks all fields and collects all errors.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Username) == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Login authenticates an agent with username + password.
// Returns ErrUnauthorized if the username is unknown, the agent has no
// credential (unclaimed), or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	agent, err := s.agents.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("agent.Login get agent: %w", err)
	}

	if !agent.HasCredential() {
		return nil, domain.ErrUnauthorized
	}
	if !s.hasher.Compare(*agent.PasswordHash, input.Password) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.sessions.Generate(agent.ID, auth.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.log.InfoContext(ctx, "agent logged in",
		slog.String("agent_id", agent.ID.String()))

	return &AuthResult{Agent: agent, Token: token}, nil
}
