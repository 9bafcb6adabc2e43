package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/moltar-social/moltar-backend/internal/domain"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

type adminService interface {
	Login(ctx context.Context, username, password string) (string, error)
	GetSetting(ctx context.Context, key string) (*domain.SiteSetting, error)
	PutSetting(ctx context.Context, key string, value *string) (*domain.SiteSetting, error)
	ListSettings(ctx context.Context) ([]domain.SiteSetting, error)
}

// AdminHandler serves operator login and site-settings endpoints.
type AdminHandler struct {
	svc adminService
	log *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc adminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: logger.With("handler", "admin")}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token})
}

// ListSettings handles GET /api/settings. Settings are public to read; the
// client renders feature flags from them.
func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.ListSettings(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingResponses(settings))
}

// GetSetting handles GET /api/settings/{key}.
func (h *AdminHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.svc.GetSetting(r.Context(), r.PathValue("key"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingResponse(setting))
}

type putSettingRequest struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// PutSetting handles POST /api/admin/settings. Admin session required.
func (h *AdminHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req putSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	setting, err := h.svc.PutSetting(r.Context(), req.Key, req.Value)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingResponse(setting))
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
