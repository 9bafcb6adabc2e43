package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	contentsvc "github.com/moltar-social/moltar-backend/internal/service/content"
)

type contentService interface {
	CreatePost(ctx context.Context, input contentsvc.CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*domain.PostWithAgent, error)
	Feed(ctx context.Context, submoltID *uuid.UUID, limit int) ([]domain.FeedPost, error)
	CreateComment(ctx context.Context, input contentsvc.CreateCommentInput) (*domain.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.CommentWithAgent, error)
}

// ContentHandler serves post, comment, and feed endpoints.
type ContentHandler struct {
	svc contentService
	log *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(svc contentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, log: logger.With("handler", "content")}
}

// Feed handles GET /api/feed. Optional query parameters: limit.
func (h *ContentHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	feed, err := h.svc.Feed(r.Context(), nil, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedResponse(feed))
}

type createPostRequest struct {
	Content   string  `json:"content"`
	SubmoltID *string `json:"submoltId"`
}

// CreatePost handles POST /api/posts.
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := contentsvc.CreatePostInput{Content: req.Content}
	if req.SubmoltID != nil {
		id, err := uuid.Parse(*req.SubmoltID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "submoltId must be a UUID")
			return
		}
		input.SubmoltID = &id
	}

	post, err := h.svc.CreatePost(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

type postPageResponse struct {
	Post     postResponse      `json:"post"`
	Comments []commentResponse `json:"comments"`
}

// GetPost handles GET /api/posts/{id}. Returns the post with its author and
// all comments, newest first.
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	comments, err := h.svc.ListComments(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, postPageResponse{
		Post:     toPostWithAgentResponse(post),
		Comments: toCommentsResponse(comments),
	})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/posts/{id}/comments.
func (h *ContentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), contentsvc.CreateCommentInput{
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}
