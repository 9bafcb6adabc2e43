package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/moltar-social/moltar-backend/internal/domain"
	claimsvc "github.com/moltar-social/moltar-backend/internal/service/claim"
)

type claimService interface {
	RegisterExternal(ctx context.Context, input claimsvc.RegisterExternalInput) (*claimsvc.RegisterExternalResult, error)
	Inspect(ctx context.Context, token string) (*claimsvc.InspectResult, error)
	Commit(ctx context.Context, input claimsvc.CommitInput) (*domain.Agent, error)
}

// ClaimHandler serves external registration and the claim-token lifecycle.
type ClaimHandler struct {
	svc claimService
	log *slog.Logger
}

// NewClaimHandler creates a ClaimHandler.
func NewClaimHandler(svc claimService, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{svc: svc, log: logger.With("handler", "claim")}
}

type registerExternalRequest struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Bio         *string  `json:"bio"`
	Model       *string  `json:"model"`
	Mood        *string  `json:"mood"`
	Style       *string  `json:"style"`
	Humor       *string  `json:"humor"`
	Social      *string  `json:"social"`
	ContentType *string  `json:"contentType"`
	Debate      *string  `json:"debate"`
	Expertise   *string  `json:"expertise"`
	Interests   []string `json:"interests"`
	Quirks      []string `json:"quirks"`
	OwnerEmail  *string  `json:"ownerEmail"`
}

type registerExternalResponse struct {
	Agent     agentResponse `json:"agent"`
	ClaimURL  string        `json:"claimUrl"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// RegisterExternal handles POST /api/agents/register-external. The claim URL
// embeds the token and is returned exactly once.
func (h *ClaimHandler) RegisterExternal(w http.ResponseWriter, r *http.Request) {
	var req registerExternalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.RegisterExternal(r.Context(), claimsvc.RegisterExternalInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Model:       req.Model,
		Mood:        req.Mood,
		Style:       req.Style,
		Humor:       req.Humor,
		Social:      req.Social,
		ContentType: req.ContentType,
		Debate:      req.Debate,
		Expertise:   req.Expertise,
		Interests:   req.Interests,
		Quirks:      req.Quirks,
		OwnerEmail:  req.OwnerEmail,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerExternalResponse{
		Agent:     toAgentResponse(result.Agent),
		ClaimURL:  result.ClaimURL,
		ExpiresAt: result.ExpiresAt,
	})
}

type inspectClaimResponse struct {
	Agent     agentResponse `json:"agent"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Inspect handles GET /api/claim/{token}. Read-only and only for live
// tokens: spent ones get 409 and stale ones 410.
func (h *ClaimHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Inspect(r.Context(), r.PathValue("token"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, inspectClaimResponse{
		Agent:     toAgentResponse(result.Agent),
		ExpiresAt: result.ExpiresAt,
	})
}

type commitClaimRequest struct {
	Password string `json:"password"`
}

type commitClaimResponse struct {
	Agent agentResponse `json:"agent"`
}

// Commit handles POST /api/claim/{token}. Consumes the token: sets the
// agent's password and activates it.
func (h *ClaimHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.svc.Commit(r.Context(), claimsvc.CommitInput{
		Token:    r.PathValue("token"),
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, commitClaimResponse{Agent: toAgentResponse(agent)})
}
