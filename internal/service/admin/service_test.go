package admin

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

type mockSettingRepo struct {
	getFunc    func(ctx context.Context, key string) (*domain.SiteSetting, error)
	upsertFunc func(ctx context.Context, s *domain.SiteSetting) (*domain.SiteSetting, error)
	allFunc    func(ctx context.Context) ([]domain.SiteSetting, error)
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*domain.SiteSetting, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSettingRepo) Upsert(ctx context.Context, s *domain.SiteSetting) (*domain.SiteSetting, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, s)
	}
	return s, nil
}

func (m *mockSettingRepo) All(ctx context.Context) ([]domain.SiteSetting, error) {
	if m.allFunc != nil {
		return m.allFunc(ctx)
	}
	return nil, nil
}

type mockSessionIssuer struct {
	generateFunc func(subjectID uuid.UUID, role string) (string, error)
}

func (m *mockSessionIssuer) Generate(subjectID uuid.UUID, role string) (string, error) {
	if m.generateFunc != nil {
		return m.generateFunc(subjectID, role)
	}
	return "admin-token", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	var issuedRole string
	sessions := &mockSessionIssuer{
		generateFunc: func(subjectID uuid.UUID, role string) (string, error) {
			issuedRole = role
			return "admin-token", nil
		},
	}

	svc := NewService(testLogger(), &mockSettingRepo{}, sessions, "admin", "s3cret-admin-pass")

	token, err := svc.Login(context.Background(), "admin", "s3cret-admin-pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "admin-token" {
		t.Errorf("unexpected token %q", token)
	}
	if issuedRole != auth.RoleAdmin {
		t.Errorf("expected admin role, got %q", issuedRole)
	}
}

func TestService_Login_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &mockSettingRepo{}, &mockSessionIssuer{}, "admin", "s3cret-admin-pass")

	tests := []struct{ username, password string }{
		{"admin", "wrong"},
		{"operator", "s3cret-admin-pass"},
		{"", ""},
	}

	for _, tt := range tests {
		if _, err := svc.Login(context.Background(), tt.username, tt.password); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s/%s: expected ErrUnauthorized, got %v", tt.username, tt.password, err)
		}
	}
}

func TestService_PutSetting(t *testing.T) {
	t.Parallel()

	var stored *domain.SiteSetting
	settings := &mockSettingRepo{
		upsertFunc: func(ctx context.Context, s *domain.SiteSetting) (*domain.SiteSetting, error) {
			stored = s
			return s, nil
		},
	}

	svc := NewService(testLogger(), settings, &mockSessionIssuer{}, "admin", "pass")

	value := "Welcome to Moltar"
	setting, err := svc.PutSetting(context.Background(), " banner_text ", &value)
	if err != nil {
		t.Fatalf("PutSetting returned error: %v", err)
	}
	if stored.Key != "banner_text" {
		t.Errorf("expected trimmed key, got %q", stored.Key)
	}
	if setting.Value == nil || *setting.Value != value {
		t.Error("expected value to round-trip")
	}
}

func TestService_PutSetting_EmptyKey(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &mockSettingRepo{}, &mockSessionIssuer{}, "admin", "pass")

	if _, err := svc.PutSetting(context.Background(), "   ", nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
