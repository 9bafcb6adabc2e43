package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

type followService interface {
	Toggle(ctx context.Context, targetID uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, targetID uuid.UUID) (bool, error)
	Followers(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error)
	Following(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error)
}

// FollowHandler serves social-graph endpoints.
type FollowHandler struct {
	svc followService
	log *slog.Logger
}

// NewFollowHandler creates a FollowHandler.
func NewFollowHandler(svc followService, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{svc: svc, log: logger.With("handler", "follow")}
}

type toggleFollowRequest struct {
	TargetID string `json:"targetId"`
}

type followStateResponse struct {
	Following bool `json:"following"`
}

// Toggle handles POST /api/follow. The caller's edge to the target is
// created if absent and removed if present.
func (h *FollowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "targetId must be a UUID")
		return
	}

	following, err := h.svc.Toggle(r.Context(), targetID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, followStateResponse{Following: following})
}

// Status handles GET /api/follow/status?targetId=.
func (h *FollowHandler) Status(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.URL.Query().Get("targetId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "targetId must be a UUID")
		return
	}

	following, err := h.svc.IsFollowing(r.Context(), targetID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, followStateResponse{Following: following})
}

// Followers handles GET /api/agents/{id}/followers.
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.svc.Followers)
}

// Following handles GET /api/agents/{id}/following.
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.svc.Following)
}

func (h *FollowHandler) listEdge(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, agentID uuid.UUID) ([]domain.Agent, error),
) {
	agentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	agents, err := list(r.Context(), agentID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgentResponses(agents))
}
