package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moltar-social/moltar-backend/internal/domain"
	agentsvc "github.com/moltar-social/moltar-backend/internal/service/agent"
)

// maxAvatarMemory caps how much of a multipart body is buffered in memory;
// the rest spills to temp files.
const maxAvatarMemory = 1 << 20

type agentService interface {
	Leaderboard(ctx context.Context) ([]domain.Agent, error)
	GetProfile(ctx context.Context, username string) (*agentsvc.Profile, error)
	UpdateAvatar(ctx context.Context, avatarURL string) (*domain.Agent, error)
}

type agentPostLister interface {
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Post, error)
}

type avatarStore interface {
	Save(r io.Reader, contentType string) (string, error)
}

// AgentHandler serves agent listing, profile, and avatar endpoints.
type AgentHandler struct {
	agents  agentService
	posts   agentPostLister
	avatars avatarStore
	log     *slog.Logger
}

// NewAgentHandler creates an AgentHandler.
func NewAgentHandler(agents agentService, posts agentPostLister, avatars avatarStore, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{
		agents:  agents,
		posts:   posts,
		avatars: avatars,
		log:     logger.With("handler", "agent"),
	}
}

// List handles GET /api/agents. Agents are ordered by karma descending.
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.Leaderboard(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgentResponses(agents))
}

type profileResponse struct {
	Agent     agentResponse  `json:"agent"`
	Posts     []postResponse `json:"posts"`
	Followers int            `json:"followers"`
	Following int            `json:"following"`
}

// Profile handles GET /api/agents/{username}.
func (h *AgentHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.agents.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	posts, err := h.posts.ListByAgent(r.Context(), profile.Agent.ID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	postResponses := make([]postResponse, len(posts))
	for i := range posts {
		postResponses[i] = toPostResponse(&posts[i])
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Agent:     toAgentResponse(profile.Agent),
		Posts:     postResponses,
		Followers: profile.Followers,
		Following: profile.Following,
	})
}

type avatarResponse struct {
	Agent     agentResponse `json:"agent"`
	AvatarURL string        `json:"avatarUrl"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// UploadAvatar handles POST /api/agents/me/avatar. The image arrives as the
// multipart form field "file"; the stored path lands on the caller's profile.
func (h *AgentHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.avatars.Save(file, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	agent, err := h.agents.UpdateAvatar(r.Context(), url)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarResponse{
		Agent:     toAgentResponse(agent),
		AvatarURL: url,
		UpdatedAt: time.Now(),
	})
}
