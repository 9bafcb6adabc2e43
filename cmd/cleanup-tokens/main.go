// Command cleanup-tokens deletes expired, unclaimed claim tokens.
//
// Usage:
//
//	cleanup-tokens
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	claimrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/claim"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	deleted, err := claimrepo.New(pool).DeleteExpiredUnclaimed(ctx)
	if err != nil {
		log.Fatalf("cleanup claim tokens: %v", err)
	}

	fmt.Printf("Deleted %d expired unclaimed claim tokens.\n", deleted)
}
