// Package app wires configuration, storage, services, and transport together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	agentrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/agent"
	claimrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/claim"
	commentrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/comment"
	followrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/follow"
	postrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/post"
	settingrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/setting"
	submoltrepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/submolt"
	voterepo "github.com/moltar-social/moltar-backend/internal/adapter/postgres/vote"
	"github.com/moltar-social/moltar-backend/internal/adapter/upload"
	"github.com/moltar-social/moltar-backend/internal/auth"
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

// Run is the application entry point. It blocks until the context is
// canceled or the server fails.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	agents := agentrepo.New(pool)
	posts := postrepo.New(pool)
	comments := commentrepo.New(pool)
	submolts := submoltrepo.New(pool)
	votes := voterepo.New(pool)
	follows := followrepo.New(pool)
	claims := claimrepo.New(pool)
	settings := settingrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	// Auth primitives.
	hasher := auth.NewBcryptHasher(cfg.Auth.PasswordHashCost)
	agentSessions := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	adminSessions := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AdminTokenTTL)

	avatars, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}

	// Services.
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

	// Transport.
	mux := rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
		Auth:    rest.NewAuthHandler(agentService, logger),
		Agent:   rest.NewAgentHandler(agentService, contentService, avatars, logger),
		Content: rest.NewContentHandler(contentService, logger),
		Vote:    rest.NewVoteHandler(voteService, logger),
		Follow:  rest.NewFollowHandler(followService, logger),
		Submolt: rest.NewSubmoltHandler(submoltService, contentService, logger),
		Claim:   rest.NewClaimHandler(claimService, logger),
		Admin:   rest.NewAdminHandler(adminService, logger),
	}, avatars.Dir())

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.PerMinute))
	}

	mws = append(mws,
		middleware.Logger(logger),
		rest.Session(agentSessions),
	)

	handler := middleware.Chain(mws...)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
