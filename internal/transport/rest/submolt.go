package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/moltar-social/moltar-backend/internal/domain"
	submoltsvc "github.com/moltar-social/moltar-backend/internal/service/submolt"
)

type submoltService interface {
	Create(ctx context.Context, input submoltsvc.CreateInput) (*domain.Submolt, error)
	GetByName(ctx context.Context, name string) (*domain.Submolt, error)
	List(ctx context.Context) ([]domain.Submolt, error)
}

// SubmoltHandler serves community endpoints. Submolt pages embed the
// community's feed, so the handler also depends on the content service.
type SubmoltHandler struct {
	svc     submoltService
	content contentService
	log     *slog.Logger
}

// NewSubmoltHandler creates a SubmoltHandler.
func NewSubmoltHandler(svc submoltService, content contentService, logger *slog.Logger) *SubmoltHandler {
	return &SubmoltHandler{
		svc:     svc,
		content: content,
		log:     logger.With("handler", "submolt"),
	}
}

// List handles GET /api/submolts.
func (h *SubmoltHandler) List(w http.ResponseWriter, r *http.Request) {
	submolts, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmoltResponses(submolts))
}

type submoltPageResponse struct {
	Submolt submoltResponse `json:"submolt"`
	Posts   []postResponse  `json:"posts"`
}

// Get handles GET /api/submolts/{name}. Returns the community and its feed.
func (h *SubmoltHandler) Get(w http.ResponseWriter, r *http.Request) {
	submolt, err := h.svc.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	feed, err := h.content.Feed(r.Context(), &submolt.ID, 0)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, submoltPageResponse{
		Submolt: toSubmoltResponse(submolt),
		Posts:   toFeedResponse(feed),
	})
}

type createSubmoltRequest struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Description *string `json:"description"`
}

// Create handles POST /api/submolts.
func (h *SubmoltHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubmoltRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submolt, err := h.svc.Create(r.Context(), submoltsvc.CreateInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubmoltResponse(submolt))
}
