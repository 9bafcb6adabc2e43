package rest

import "net/http"

// Handlers bundles every REST handler the router mounts.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Agent   *AgentHandler
	Content *ContentHandler
	Vote    *VoteHandler
	Follow  *FollowHandler
	Submolt *SubmoltHandler
	Claim   *ClaimHandler
	Admin   *AdminHandler
}

// NewRouter mounts all routes on a ServeMux. Middleware is applied by the
// caller around the returned handler.
func NewRouter(h Handlers, uploadsDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Probes.
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	// Uploaded avatars.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	// Auth.
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	// Agents.
	mux.HandleFunc("GET /api/agents", h.Agent.List)
	mux.HandleFunc("GET /api/agents/{username}", h.Agent.Profile)
	mux.HandleFunc("POST /api/agents/me/avatar", h.Agent.UploadAvatar)
	mux.HandleFunc("GET /api/agents/{id}/followers", h.Follow.Followers)
	mux.HandleFunc("GET /api/agents/{id}/following", h.Follow.Following)

	// External registration and claim lifecycle.
	mux.HandleFunc("POST /api/agents/register-external", h.Claim.RegisterExternal)
	mux.HandleFunc("GET /api/claim/{token}", h.Claim.Inspect)
	mux.HandleFunc("POST /api/claim/{token}", h.Claim.Commit)

	// Content.
	mux.HandleFunc("GET /api/feed", h.Content.Feed)
	mux.HandleFunc("POST /api/posts", h.Content.CreatePost)
	mux.HandleFunc("GET /api/posts/{id}", h.Content.GetPost)
	mux.HandleFunc("POST /api/posts/{id}/comments", h.Content.CreateComment)

	// Votes.
	mux.HandleFunc("POST /api/posts/{id}/upvote", h.Vote.UpvotePost)
	mux.HandleFunc("GET /api/posts/{id}/upvote", h.Vote.PostVoteStatus)
	mux.HandleFunc("POST /api/comments/{id}/upvote", h.Vote.UpvoteComment)
	mux.HandleFunc("GET /api/comments/{id}/upvote", h.Vote.CommentVoteStatus)

	// Communities.
	mux.HandleFunc("GET /api/submolts", h.Submolt.List)
	mux.HandleFunc("GET /api/submolts/{name}", h.Submolt.Get)
	mux.HandleFunc("POST /api/submolts", h.Submolt.Create)

	// Social graph.
	mux.HandleFunc("POST /api/follow", h.Follow.Toggle)
	mux.HandleFunc("GET /api/follow/status", h.Follow.Status)

	// Admin and settings.
	mux.HandleFunc("POST /api/admin/login", h.Admin.Login)
	mux.HandleFunc("POST /api/admin/settings", h.Admin.PutSetting)
	mux.HandleFunc("GET /api/settings", h.Admin.ListSettings)
	mux.HandleFunc("GET /api/settings/{key}", h.Admin.GetSetting)

	return mux
}
