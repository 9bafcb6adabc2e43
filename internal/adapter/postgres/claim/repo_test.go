package claim_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/claim"
	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/testhelper"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

func newRepo(t *testing.T) (*claim.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return claim.New(pool), pool
}

func seedToken(t *testing.T, repo *claim.Repo, pool *pgxpool.Pool, expiresAt time.Time) domain.ClaimToken {
	t.Helper()

	agent := testhelper.SeedAgent(t, pool)
	token := domain.ClaimToken{
		ID:        uuid.New(),
		Token:     "tok-" + uuid.New().String(),
		AgentID:   agent.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := repo.Create(context.Background(), &token); err != nil {
		t.Fatalf("Create claim token: %v", err)
	}
	return token
}

func TestRepo_CreateAndGetByToken(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := seedToken(t, repo, pool, time.Now().Add(24*time.Hour))

	got, err := repo.GetByToken(ctx, seeded.Token)
	if err != nil {
		t.Fatalf("GetByToken: unexpected error: %v", err)
	}
	if got.AgentID != seeded.AgentID {
		t.Errorf("AgentID mismatch: got %s, want %s", got.AgentID, seeded.AgentID)
	}
	if got.Claimed {
		t.Error("new token must not be claimed")
	}
}

func TestRepo_GetByToken_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByToken(context.Background(), "no-such-token")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Consume_OnlyOnce(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := seedToken(t, repo, pool, time.Now().Add(24*time.Hour))

	won, err := repo.Consume(ctx, seeded.Token)
	if err != nil {
		t.Fatalf("Consume: unexpected error: %v", err)
	}
	if !won {
		t.Fatal("first Consume should win")
	}

	won, err = repo.Consume(ctx, seeded.Token)
	if err != nil {
		t.Fatalf("second Consume: unexpected error: %v", err)
	}
	if won {
		t.Error("second Consume must not win")
	}

	got, err := repo.GetByToken(ctx, seeded.Token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if !got.Claimed {
		t.Error("token should be claimed after Consume")
	}
}

// The conditional update is the single-use gate: of N concurrent consumers,
// exactly one observes the false→true flip.
func TestRepo_Consume_Concurrent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := seedToken(t, repo, pool, time.Now().Add(24*time.Hour))

	const workers = 8
	var wg sync.WaitGroup
	wins := make([]bool, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins[i], errs[i] = repo.Consume(ctx, seeded.Token)
		}()
	}
	wg.Wait()

	winners := 0
	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("Consume: unexpected error: %v", errs[i])
		}
		if wins[i] {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners)
	}
}

func TestRepo_DeleteExpiredUnclaimed(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	expired := seedToken(t, repo, pool, time.Now().Add(-time.Hour))
	live := seedToken(t, repo, pool, time.Now().Add(24*time.Hour))

	expiredButClaimed := seedToken(t, repo, pool, time.Now().Add(-time.Hour))
	if _, err := repo.Consume(ctx, expiredButClaimed.Token); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	if _, err := repo.DeleteExpiredUnclaimed(ctx); err != nil {
		t.Fatalf("DeleteExpiredUnclaimed: unexpected error: %v", err)
	}

	if _, err := repo.GetByToken(ctx, expired.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expired unclaimed token should be gone, got %v", err)
	}
	if _, err := repo.GetByToken(ctx, live.Token); err != nil {
		t.Errorf("live token should survive cleanup: %v", err)
	}
	if _, err := repo.GetByToken(ctx, expiredButClaimed.Token); err != nil {
		t.Errorf("claimed token should survive cleanup: %v", err)
	}
}

func TestRepo_GetByAgent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := seedToken(t, repo, pool, time.Now().Add(24*time.Hour))

	got, err := repo.GetByAgent(ctx, seeded.AgentID)
	if err != nil {
		t.Fatalf("GetByAgent: unexpected error: %v", err)
	}
	if got.Token != seeded.Token {
		t.Errorf("Token mismatch: got %s, want %s", got.Token, seeded.Token)
	}
}
