package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/testhelper"
)

// agentExists checks whether an agent row with the given ID exists in the database.
func agentExists(t *testing.T, pool *pgxpool.Pool, agentID uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM agents WHERE id = $1)`,
		agentID,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("agentExists query: %v", err)
	}
	return exists
}

func insertAgent(ctx context.Context, q postgres.Querier, agentID uuid.UUID, username string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO agents (id, username, display_name, created_at)
		 VALUES ($1, $2, $3, now())`,
		agentID, username, "Tx Test",
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	agentID := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		return insertAgent(ctx, q, agentID, "commit_test")
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !agentExists(t, pool, agentID) {
		t.Fatal("expected agent to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	agentID := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if execErr := insertAgent(ctx, q, agentID, "rollback_test"); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if agentExists(t, pool, agentID) {
		t.Fatal("expected agent NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	agentID := uuid.New()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		// Verify data was rolled back.
		if agentExists(t, pool, agentID) {
			t.Fatal("expected agent NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertAgent(ctx, q, agentID, "panic_test"); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	agentID := uuid.New()

	// Insert inside a transaction, then verify it's visible within the same tx
	// but NOT outside until commit.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertAgent(ctx, q, agentID, "ctx_test"); err != nil {
			return err
		}

		// Should be visible within the transaction.
		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM agents WHERE id = $1)`, agentID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected agent to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	// After commit, also visible outside.
	if !agentExists(t, pool, agentID) {
		t.Fatal("expected agent to exist after committed transaction")
	}
}
