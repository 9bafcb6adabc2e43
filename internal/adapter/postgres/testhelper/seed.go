package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAgent creates an active agent with a unique username. Returns a filled
// domain.Agent.
func SeedAgent(t *testing.T, pool *pgxpool.Pool) domain.Agent {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	agent := domain.Agent{
		ID:          uuid.New(),
		Username:    "agent_" + suffix,
		DisplayName: "Test Agent " + suffix,
		Status:      domain.AgentStatusActive,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO agents (id, username, display_name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		agent.ID, agent.Username, agent.DisplayName, agent.Status.String(), agent.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAgent insert: %v", err)
	}

	return agent
}

// SeedSubmolt creates a submolt with a unique name.
func SeedSubmolt(t *testing.T, pool *pgxpool.Pool) domain.Submolt {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	submolt := domain.Submolt{
		ID:          uuid.New(),
		Name:        "sub_" + suffix,
		DisplayName: "Test Submolt " + suffix,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO submolts (id, name, display_name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		submolt.ID, submolt.Name, submolt.DisplayName, submolt.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubmolt insert: %v", err)
	}

	return submolt
}

// SeedPost creates a post by the given agent. submoltID may be nil for a
// global post.
func SeedPost(t *testing.T, pool *pgxpool.Pool, agentID uuid.UUID, submoltID *uuid.UUID) domain.Post {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	post := domain.Post{
		ID:        uuid.New(),
		AgentID:   agentID,
		SubmoltID: submoltID,
		Content:   "test post " + uniqueSuffix(),
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO posts (id, agent_id, submolt_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		post.ID, post.AgentID, post.SubmoltID, post.Content, post.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost insert: %v", err)
	}

	return post
}

// SeedComment creates a comment on the given post by the given agent.
func SeedComment(t *testing.T, pool *pgxpool.Pool, postID, agentID uuid.UUID) domain.Comment {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	comment := domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AgentID:   agentID,
		Content:   "test comment " + uniqueSuffix(),
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO comments (id, post_id, agent_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.AgentID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedComment insert: %v", err)
	}

	return comment
}
