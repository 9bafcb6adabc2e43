package content

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Test mocks (minimal, inline)
// ---------------------------------------------------------------------------

type mockPostRepo struct {
	createFunc       func(ctx context.Context, p *domain.Post) (*domain.Post, error)
	getWithAgentFunc func(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error)
	listFeedFunc     func(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error)
	listByAgentFunc  func(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error)
}

func (m *mockPostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return p, nil
}

func (m *mockPostRepo) GetWithAgent(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error) {
	if m.getWithAgentFunc != nil {
		return m.getWithAgentFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPostRepo) ListFeed(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error) {
	if m.listFeedFunc != nil {
		return m.listFeedFunc(ctx, submoltID, limit)
	}
	return nil, nil
}

func (m *mockPostRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error) {
	if m.listByAgentFunc != nil {
		return m.listByAgentFunc(ctx, agentID)
	}
	return nil, nil
}

type mockCommentRepo struct {
	createFunc     func(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	listByPostFunc func(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return c, nil
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error) {
	if m.listByPostFunc != nil {
		return m.listByPostFunc(ctx, postID)
	}
	return nil, nil
}

type mockSubmoltRepo struct {
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Submolt, error)
}

func (m *mockSubmoltRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submolt, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestService(posts *mockPostRepo, comments *mockCommentRepo, submolts *mockSubmoltRepo) *Service {
	return NewService(testLogger(), posts, comments, submolts, 50, 200)
}

func testCtx(agentID uuid.UUID) context.Context {
	return ctxutil.WithAgentID(context.Background(), agentID)
}

// ---------------------------------------------------------------------------
// CreatePost tests
// ---------------------------------------------------------------------------

func TestService_CreatePost_Global(t *testing.T) {
	t.Parallel()

	agentID := uuid.New()
	var created *domain.Post

	posts := &mockPostRepo{
		createFunc: func(ctx context.Context, p *domain.Post) (*domain.Post, error) {
			created = p
			return p, nil
		},
	}

	svc := newTestService(posts, &mockCommentRepo{}, &mockSubmoltRepo{})

	post, err := svc.CreatePost(testCtx(agentID), CreatePostInput{Content: "  hello molts  "})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}

	if created.AgentID != agentID {
		t.Error("expected post authored by the caller")
	}
	if post.Content != "hello molts" {
		t.Errorf("expected trimmed content, got %q", post.Content)
	}
	if post.SubmoltID != nil {
		t.Error("expected global post")
	}
}

func TestService_CreatePost_UnknownSubmolt(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockSubmoltRepo{})

	submoltID := uuid.New()
	_, err := svc.CreatePost(testCtx(uuid.New()), CreatePostInput{Content: "x", SubmoltID: &submoltID})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown submolt, got %v", err)
	}
}

func TestService_CreatePost_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockSubmoltRepo{})

	_, err := svc.CreatePost(context.Background(), CreatePostInput{Content: "x"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockSubmoltRepo{})

	for _, content := range []string{"", "   ", strings.Repeat("x", maxContentLength+1)} {
		if _, err := svc.CreatePost(testCtx(uuid.New()), CreatePostInput{Content: content}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("content %q: expected ErrValidation, got %v", content[:min(len(content), 10)], err)
		}
	}
}

// ---------------------------------------------------------------------------
// Feed tests
// ---------------------------------------------------------------------------

func TestService_Feed_LimitDefaultsAndClamping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero uses default", 0, 50},
		{"negative uses default", -3, 50},
		{"in range passes through", 25, 25},
		{"above max clamps", 1000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotLimit int
			posts := &mockPostRepo{
				listFeedFunc: func(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error) {
					gotLimit = limit
					return nil, nil
				},
			}

			svc := newTestService(posts, &mockCommentRepo{}, &mockSubmoltRepo{})

			if _, err := svc.Feed(context.Background(), nil, tt.limit); err != nil {
				t.Fatalf("Feed returned error: %v", err)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, gotLimit)
			}
		})
	}
}

func TestService_Feed_UnknownSubmolt(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockSubmoltRepo{})

	submoltID := uuid.New()
	_, err := svc.Feed(context.Background(), &submoltID, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Comment tests
// ---------------------------------------------------------------------------

func TestService_CreateComment(t *testing.T) {
	t.Parallel()

	agentID := uuid.New()
	postID := uuid.New()

	posts := &mockPostRepo{
		getWithAgentFunc: func(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error) {
			return &domain.PostWithAgent{Post: domain.Post{ID: id}}, nil
		},
	}

	var created *domain.Comment
	comments := &mockCommentRepo{
		createFunc: func(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
			created = c
			return c, nil
		},
	}

	svc := newTestService(posts, comments, &mockSubmoltRepo{})

	comment, err := svc.CreateComment(testCtx(agentID), CreateCommentInput{PostID: postID, Content: "nice take"})
	if err != nil {
		t.Fatalf("CreateComment returned error: %v", err)
	}
	if created.AgentID != agentID || created.PostID != postID {
		t.Error("expected comment bound to caller and post")
	}
	if comment.Content != "nice take" {
		t.Errorf("unexpected content %q", comment.Content)
	}
}

func TestService_CreateComment_PostNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockSubmoltRepo{})

	_, err := svc.CreateComment(testCtx(uuid.New()), CreateCommentInput{PostID: uuid.New(), Content: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
