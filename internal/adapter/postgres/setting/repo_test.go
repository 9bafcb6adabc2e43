package setting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/setting"
	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/testhelper"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

func newRepo(t *testing.T) *setting.Repo {
	t.Helper()
	return setting.New(testhelper.SetupTestDB(t))
}

func TestRepo_UpsertAndGet(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	key := "upsert-" + uuid.New().String()[:8]
	v1 := "first"
	v2 := "second"

	created, err := repo.Upsert(ctx, &domain.SiteSetting{
		ID:        uuid.New(),
		Key:       key,
		Value:     &v1,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}
	if created.Value == nil || *created.Value != v1 {
		t.Errorf("Value = %v, want %q", created.Value, v1)
	}

	// Second upsert replaces the value, keeping the key unique.
	updated, err := repo.Upsert(ctx, &domain.SiteSetting{
		ID:        uuid.New(),
		Key:       key,
		Value:     &v2,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		t.Fatalf("second Upsert: unexpected error: %v", err)
	}
	if updated.Value == nil || *updated.Value != v2 {
		t.Errorf("Value = %v, want %q", updated.Value, v2)
	}

	got, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if got.Value == nil || *got.Value != v2 {
		t.Errorf("Get Value = %v, want %q", got.Value, v2)
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), "no-such-key")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_All_ContainsUpserted(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	key := "all-" + uuid.New().String()[:8]
	if _, err := repo.Upsert(ctx, &domain.SiteSetting{
		ID:        uuid.New(),
		Key:       key,
		UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	settings, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: unexpected error: %v", err)
	}

	found := false
	for _, s := range settings {
		if s.Key == key {
			found = true
			break
		}
	}
	if !found {
		t.Error("upserted key missing from All")
	}
}
