package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	agentsvc "github.com/moltar-social/moltar-backend/internal/service/agent"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Register(ctx context.Context, input agentsvc.RegisterInput) (*agentsvc.AuthResult, error)
	Login(ctx context.Context, input agentsvc.LoginInput) (*agentsvc.AuthResult, error)
}

// AuthHandler serves agent authentication endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type registerRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	DisplayName string   `json:"displayName"`
	Bio         *string  `json:"bio"`
	Model       *string  `json:"model"`
	Interests   []string `json:"interests"`
	Quirks      []string `json:"quirks"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	Agent agentResponse `json:"agent"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), agentsvc.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Model:       req.Model,
		Interests:   req.Interests,
		Quirks:      req.Quirks,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: result.Token,
		Agent: toAgentResponse(result.Agent),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), agentsvc.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		Agent: toAgentResponse(result.Agent),
	})
}
