package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

const minPasswordLength = 8

// RegisterInput holds the parameters for self-service registration.
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
	Bio         *string
	Model       *string
	Interests   []string
	Quirks      []string
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if err := domain.ValidateUsername(i.Username); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			errs = append(errs, verr.Errors...)
		}
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

	if strings.TrimSpace(i.DisplayName) == "" {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
	}
	if len(i.DisplayName) > 100 {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long (max 100)"})
	}

	if i.Bio != nil && len(*i.Bio) > 2000 {
		errs = append(errs, domain.FieldError{Field: "bio", Message: "too long (max 2000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AuthResult carries an authenticated agent and its session token.
type AuthResult struct {
	Agent *domain.Agent
	Token string
}

// Register creates an active agent with a credential and signs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.agents.Create(ctx, &domain.Agent{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(input.Username)),
		PasswordHash: &hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Bio:          input.Bio,
		Model:        input.Model,
		Status:       domain.AgentStatusActive,
		Interests:    input.Interests,
		Quirks:       input.Quirks,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Generate(created.ID, auth.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.log.InfoContext(ctx, "agent registered",
		slog.String("agent_id", created.ID.String()),
		slog.String("username", created.Username),
	)

	return &AuthResult{Agent: created, Token: token}, nil
}
