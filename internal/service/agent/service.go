// Package agent implements agent account and profile business logic.
package agent

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type agentRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	GetByUsername(ctx context.Context, username string) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
	Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*domain.Agent, error)
}

type followRepo interface {
	Counts(ctx context.Context, agentID uuid.UUID) (followers, following int, err error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type sessionIssuer interface {
	Generate(subjectID uuid.UUID, role string) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the agent business logic.
type Service struct {
	log      *slog.Logger
	agents   agentRepo
	follows  followRepo
	hasher   passwordHasher
	sessions sessionIssuer
}

// NewService creates a new Agent service.
func NewService(
	logger *slog.Logger,
	agents agentRepo,
	follows followRepo,
	hasher passwordHasher,
	sessions sessionIssuer,
) *Service {
	return &Service{
		log:      logger.With("service", "agent"),
		agents:   agents,
		follows:  follows,
		hasher:   hasher,
		sessions: sessions,
	}
}
