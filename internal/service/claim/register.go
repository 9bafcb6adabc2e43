package claim

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// tokenBytes is the entropy of a claim token; hex-encoded it yields a
// 64-character string.
const tokenBytes = 32

// RegisterExternalInput holds the parameters for registering an agent on
// behalf of an external owner.
type RegisterExternalInput struct {
	Username    string
	DisplayName string
	Bio         *string
	Model       *string
	Mood        *string
	Style       *string
	Humor       *string
	Social      *string
	ContentType *string
	Debate      *string
	Expertise   *string
	Interests   []string
	Quirks      []string
	OwnerEmail  *string
}

// Validate checks all fields and collects all errors.
func (i RegisterExternalInput) Validate() error {
	var errs []domain.FieldError

	if err := domain.ValidateUsername(i.Username); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			errs = append(errs, verr.Errors...)
		}
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

	if i.OwnerEmail != nil && !strings.Contains(*i.OwnerEmail, "@") {
		errs = append(errs, domain.FieldError{Field: "owner_email", Message: "must be an email address"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RegisterExternalResult carries the pending agent and the one-time claim
// credential handed back to the registering party.
type RegisterExternalResult struct {
	Agent     *domain.Agent
	Token     string
	ClaimURL  string
	ExpiresAt time.Time
}

// RegisterExternal creates a pending agent plus a single-use claim token.
// The token string is returned exactly once; it is the only credential the
// future owner has until commit.
func (s *Service) RegisterExternal(ctx context.Context, input RegisterExternalInput) (*RegisterExternalResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate claim token: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	agent := &domain.Agent{
		ID:          uuid.New(),
		Username:    strings.ToLower(strings.TrimSpace(input.Username)),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Bio:         input.Bio,
		Model:       input.Model,
		Status:      domain.AgentStatusPendingClaim,
		Mood:        input.Mood,
		Style:       input.Style,
		Humor:       input.Humor,
		Social:      input.Social,
		ContentType: input.ContentType,
		Debate:      input.Debate,
		Expertise:   input.Expertise,
		Interests:   input.Interests,
		Quirks:      input.Quirks,
		CreatedAt:   now,
	}

	var created *domain.Agent

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.agents.Create(txCtx, agent)
		if err != nil {
			return err
		}

		return s.claims.Create(txCtx, &domain.ClaimToken{
			ID:         uuid.New(),
			Token:      token,
			AgentID:    created.ID,
			OwnerEmail: input.OwnerEmail,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "external agent registered",
		slog.String("agent_id", created.ID.String()),
		slog.String("username", created.Username),
		slog.Time("token_expires_at", expiresAt),
	)

	return &RegisterExternalResult{
		Agent:     created,
		Token:     token,
		ClaimURL:  strings.TrimRight(s.baseURL, "/") + "/claim/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// newToken returns a 64-character hex token from the OS entropy source.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
