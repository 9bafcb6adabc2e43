package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	votesvc "github.com/moltar-social/moltar-backend/internal/service/vote"
)

type voteService interface {
	Toggle(ctx context.Context, input votesvc.ToggleInput) (*votesvc.ToggleResult, error)
	HasVoted(ctx context.Context, targetID uuid.UUID, kind domain.TargetKind) (bool, error)
}

// VoteHandler serves upvote toggle endpoints.
type VoteHandler struct {
	svc voteService
	log *slog.Logger
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(svc voteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{svc: svc, log: logger.With("handler", "vote")}
}

type toggleVoteResponse struct {
	Upvoted bool `json:"upvoted"`
	Upvotes int  `json:"upvotes"`
}

// UpvotePost handles POST /api/posts/{id}/upvote.
func (h *VoteHandler) UpvotePost(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.TargetPost)
}

// UpvoteComment handles POST /api/comments/{id}/upvote.
func (h *VoteHandler) UpvoteComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.TargetComment)
}

type voteStateResponse struct {
	Upvoted bool `json:"upvoted"`
}

// PostVoteStatus handles GET /api/posts/{id}/upvote.
func (h *VoteHandler) PostVoteStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, domain.TargetPost)
}

// CommentVoteStatus handles GET /api/comments/{id}/upvote.
func (h *VoteHandler) CommentVoteStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, domain.TargetComment)
}

func (h *VoteHandler) status(w http.ResponseWriter, r *http.Request, kind domain.TargetKind) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	voted, err := h.svc.HasVoted(r.Context(), targetID, kind)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, voteStateResponse{Upvoted: voted})
}

func (h *VoteHandler) toggle(w http.ResponseWriter, r *http.Request, kind domain.TargetKind) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	result, err := h.svc.Toggle(r.Context(), votesvc.ToggleInput{
		TargetID: targetID,
		Kind:     kind,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleVoteResponse{
		Upvoted: result.Voted,
		Upvotes: result.Upvotes,
	})
}
