// Package submolt implements community management business logic.
package submolt

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// namePattern matches valid submolt names: lowercase alphanumerics and
// underscores, 2-30 characters.
var namePattern = regexp.MustCompile(`^[a-z0-9_]{2,30}$`)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type submoltRepo interface {
	Create(ctx context.Context, s *domain.Submolt) (*domain.Submolt, error)
	GetByName(ctx context.Context, name string) (*domain.Submolt, error)
	List(ctx context.Context) ([]domain.Submolt, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the submolt business logic.
type Service struct {
	log      *slog.Logger
	submolts submoltRepo
}

// NewService creates a new Submolt service.
func NewService(logger *slog.Logger, submolts submoltRepo) *Service {
	return &Service{
		log:      logger.With("service", "submolt"),
		submolts: submolts,
	}
}

// CreateInput holds the parameters for creating a submolt.
type CreateInput struct {
	Name        string
	DisplayName string
	Description *string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if !namePattern.MatchString(i.Name) {
		errs = append(errs, domain.FieldError{
			Field:   "name",
			Message: "must be 2-30 characters, lowercase, alphanumeric and underscores only",
		})
	}

	if strings.TrimSpace(i.DisplayName) == "" {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
	}
	if len(i.DisplayName) > 100 {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long (max 100)"})
	}

	if i.Description != nil && len(*i.Description) > 2000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 2000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Create creates a new submolt. Names are unique; a taken name fails with
// ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Submolt, error) {
	if _, ok := ctxutil.AgentIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.submolts.Create(ctx, &domain.Submolt{
		ID:          uuid.New(),
		Name:        strings.ToLower(strings.TrimSpace(input.Name)),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: input.Description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "submolt created",
		slog.String("submolt_id", created.ID.String()),
		slog.String("name", created.Name),
	)

	return created, nil
}

// GetByName returns a submolt by its unique name.
func (s *Service) GetByName(ctx context.Context, name string) (*domain.Submolt, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	return s.submolts.GetByName(ctx, name)
}

// List returns all submolts in name order.
func (s *Service) List(ctx context.Context) ([]domain.Submolt, error) {
	return s.submolts.List(ctx)
}
