// Package admin implements operator login and site-settings management.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type settingRepo interface {
	Get(ctx context.Context, key string) (*domain.SiteSetting, error)
	Upsert(ctx context.Context, s *domain.SiteSetting) (*domain.SiteSetting, error)
	All(ctx context.Context) ([]domain.SiteSetting, error)
}

type sessionIssuer interface {
	Generate(subjectID uuid.UUID, role string) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the admin business logic. There is a single operator
// account configured at deploy time, not stored in the database.
type Service struct {
	log           *slog.Logger
	settings      settingRepo
	sessions      sessionIssuer
	adminUsername string
	adminPassword string
	adminID       uuid.UUID
}

// NewService creates a new Admin service.
func NewService(
	logger *slog.Logger,
	settings settingRepo,
	sessions sessionIssuer,
	adminUsername, adminPassword string,
) *Service {
	return &Service{
		log:           logger.With("service", "admin"),
		settings:      settings,
		sessions:      sessions,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		// Stable synthetic subject for admin session tokens.
		adminID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("moltar-admin")),
	}
}

// Login checks the operator credentials and issues an admin session token.
// Both comparisons are constant-time.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		return "", domain.ErrUnauthorized
	}

	token, err := s.sessions.Generate(s.adminID, auth.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("issue admin session: %w", err)
	}

	s.log.InfoContext(ctx, "admin logged in")
	return token, nil
}

// GetSetting returns a single setting by key.
func (s *Service) GetSetting(ctx context.Context, key string) (*domain.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.NewValidationError("key", "required")
	}
	return s.settings.Get(ctx, key)
}

// PutSetting writes a key/value pair, replacing any existing value.
func (s *Service) PutSetting(ctx context.Context, key string, value *string) (*domain.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.NewValidationError("key", "required")
	}
	if len(key) > 100 {
		return nil, domain.NewValidationError("key", "too long (max 100)")
	}

	setting, err := s.settings.Upsert(ctx, &domain.SiteSetting{
		ID:        uuid.New(),
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "site setting updated", slog.String("key", key))
	return setting, nil
}

// ListSettings returns every setting in key order.
func (s *Service) ListSettings(ctx context.Context) ([]domain.SiteSetting, error) {
	return s.settings.All(ctx)
}
