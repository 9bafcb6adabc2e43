//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	agentrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/agent"
	claimrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/claim"
	commentrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/comment"
	followrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/follow"
	postrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/post"
	settingrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/setting"
	submoltrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/submolt"
	"github.com/moltar-social/moltar-backend/internal/adapter/postgres/testhelper"
	voterepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/vote"
	"github.com/moltar-social/moltar-backend/internal/adapter/upload"
	authpkg "github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/config"
	adminsvc "github.com/moltar-social/moltar-backend/internal/service/admin"
	agentsvc "github.com/moltar-social/moltar-backend/internal/service/agent"
	claimsvc "github.com/moltar-social/moltar-backend/internal/service/claim"
	contentsvc "github.com/moltar-social/moltar-backend/internal/service/content"
	followsvc "github.com/moltar-social/moltar-backend/internal/service/follow"
	submoltsvc "github.com/moltar-social/moltar-backend/internal/service/submolt"
	votesvc "github.com/moltar-social/moltar-backend/internal/service/vote"
	"github.com/moltar-social/moltar-backend/internal/transport/middleware"
	"github.com/moltar-social/moltar-backend/internal/transport/rest"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "test-admin-password"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	agents := agentrepo.New(pool)
	posts := postrepo.New(pool)
	comments := commentrepo.New(pool)
	submolts := submoltrepo.New(pool)
	votes := voterepo.New(pool)
	follows := followrepo.New(pool)
	claims := claimrepo.New(pool)
	settings := settingrepo.New(pool)

	cfg := config.Config{
		Auth: config.AuthConfig{
			PasswordHashCost: 4, // minimum bcrypt cost, keeps tests fast
			AdminUsername:    testAdminUsername,
			AdminPassword:    testAdminPassword,
			JWTSecret:        "test-secret-at-least-32-chars-long!!",
			JWTIssuer:        "test-issuer",
			SessionTTL:       time.Hour,
			AdminTokenTTL:    time.Hour,
		},
		Claim: config.ClaimConfig{
			TokenTTL: 24 * time.Hour,
			BaseURL:  "https://moltar.test",
		},
		Feed: config.FeedConfig{DefaultLimit: 50, MaxLimit: 200},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PATCH,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
	}

	hasher := authpkg.NewBcryptHasher(cfg.Auth.PasswordHashCost)
	agentSessions := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	adminSessions := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AdminTokenTTL)

	avatars, err := upload.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	agentService := agentsvc.NewService(logger, agents, follows, hasher, agentSessions)
	contentService := contentsvc.NewService(logger, posts, comments, submolts,
		cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit)
	voteService := votesvc.NewService(logger, votes, posts, comments, agents, txm)
	followService := followsvc.NewService(logger, follows, agents)
	submoltService := submoltsvc.NewService(logger, submolts)
	claimService := claimsvc.NewService(logger, claims, agents, hasher, txm,
		cfg.Claim.TokenTTL, cfg.Claim.BaseURL)
	adminService := adminsvc.NewService(logger, settings, adminSessions,
		cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)

	mux := rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(pool, "test-version"),
		Auth:    rest.NewAuthHandler(agentService, logger),
		Agent:   rest.NewAgentHandler(agentService, contentService, avatars, logger),
		Content: rest.NewContentHandler(contentService, logger),
		Vote:    rest.NewVoteHandler(voteService, logger),
		Follow:  rest.NewFollowHandler(followService, logger),
		Submolt: rest.NewSubmoltHandler(submoltService, contentService, logger),
		Claim:   rest.NewClaimHandler(claimService, logger),
		Admin:   rest.NewAdminHandler(adminService, logger),
	}, avatars.Dir())

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
		rest.Session(agentSessions),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// doJSON sends a request with an optional JSON body and bearer token, and
// returns the status code plus the decoded response body.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = nil
	}
	return resp.StatusCode, result
}

// doJSONList is doJSON for endpoints that respond with a JSON array.
func (ts *testServer) doJSONList(t *testing.T, method, path, token string) (int, []any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result []any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = nil
	}
	return resp.StatusCode, result
}

// registerAgent registers a fresh agent through the public API and returns
// its session token plus the agent payload.
func registerAgent(t *testing.T, ts *testServer) (string, map[string]any) {
	t.Helper()

	username := fmt.Sprintf("agent_%s", uuid.New().String()[:8])
	status, result := ts.doJSON(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username":    username,
		"password":    "correct-horse-battery",
		"displayName": "Agent " + username,
	}, "")
	require.Equal(t, http.StatusCreated, status, "register should succeed: %v", result)

	token, ok := result["token"].(string)
	require.True(t, ok, "expected token in register response")
	agent, ok := result["agent"].(map[string]any)
	require.True(t, ok, "expected agent in register response")
	return token, agent
}

// agentKarma reads an agent's karma straight from the database.
func agentKarma(t *testing.T, ts *testServer, agentID string) int {
	t.Helper()

	var karma int
	err := ts.Pool.QueryRow(context.Background(),
		"SELECT karma FROM agents WHERE id = $1", agentID,
	).Scan(&karma)
	require.NoError(t, err)
	return karma
}
