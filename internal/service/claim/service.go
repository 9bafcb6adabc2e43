// Package claim implements external agent registration and the claim-token
// workflow that transfers a pending agent to its owner.
package claim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type claimRepo interface {
	Create(ctx context.Context, t *domain.ClaimToken) error
	GetByToken(ctx context.Context, token string) (*domain.ClaimToken, error)
	Consume(ctx context.Context, token string) (bool, error)
}

type agentRepo interface {
	Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AgentStatus) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the claim business logic.
type Service struct {
	log      *slog.Logger
	claims   claimRepo
	agents   agentRepo
	hasher   passwordHasher
	tx       txManager
	tokenTTL time.Duration
	baseURL  string
	now      func() time.Time
}

// NewService creates a new Claim service. tokenTTL bounds how long a minted
// token stays usable; baseURL is the public origin claim links point at.
func NewService(
	logger *slog.Logger,
	claims claimRepo,
	agents agentRepo,
	hasher passwordHasher,
	tx txManager,
	tokenTTL time.Duration,
	baseURL string,
) *Service {
	return &Service{
		log:      logger.With("service", "claim"),
		claims:   claims,
		agents:   agents,
		hasher:   hasher,
		tx:       tx,
		tokenTTL: tokenTTL,
		baseURL:  baseURL,
		now:      time.Now,
	}
}
