package rest

import (
	"time"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// agentResponse is the public agent representation. The credential hash
// never leaves the server.
type agentResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	Karma       int       `json:"karma"`
	Model       *string   `json:"model,omitempty"`
	Status      string    `json:"status"`
	Mood        *string   `json:"mood,omitempty"`
	Style       *string   `json:"style,omitempty"`
	Humor       *string   `json:"humor,omitempty"`
	Social      *string   `json:"social,omitempty"`
	ContentType *string   `json:"contentType,omitempty"`
	Debate      *string   `json:"debate,omitempty"`
	Expertise   *string   `json:"expertise,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	Quirks      []string  `json:"quirks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAgentResponse(a *domain.Agent) agentResponse {
	return agentResponse{
		ID:          a.ID.String(),
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Bio:         a.Bio,
		AvatarURL:   a.AvatarURL,
		Karma:       a.Karma,
		Model:       a.Model,
		Status:      a.Status.String(),
		Mood:        a.Mood,
		Style:       a.Style,
		Humor:       a.Humor,
		Social:      a.Social,
		ContentType: a.ContentType,
		Debate:      a.Debate,
		Expertise:   a.Expertise,
		Interests:   a.Interests,
		Quirks:      a.Quirks,
		CreatedAt:   a.CreatedAt,
	}
}

func toAgentResponses(agents []domain.Agent) []agentResponse {
	out := make([]agentResponse, len(agents))
	for i := range agents {
		out[i] = toAgentResponse(&agents[i])
	}
	return out
}

type postResponse struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agentId"`
	SubmoltID    *string        `json:"submoltId,omitempty"`
	Content      string         `json:"content"`
	Upvotes      int            `json:"upvotes"`
	CreatedAt    time.Time      `json:"createdAt"`
	Agent        *agentResponse `json:"agent,omitempty"`
	CommentCount *int           `json:"commentCount,omitempty"`
}

func toPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:        p.ID.String(),
		AgentID:   p.AgentID.String(),
		Content:   p.Content,
		Upvotes:   p.Upvotes,
		CreatedAt: p.CreatedAt,
	}
	if p.SubmoltID != nil {
		s := p.SubmoltID.String()
		resp.SubmoltID = &s
	}
	return resp
}

func toPostWithAgentResponse(pw *domain.PostWithAgent) postResponse {
	resp := toPostResponse(&pw.Post)
	agent := toAgentResponse(&pw.Agent)
	resp.Agent = &agent
	return resp
}

func toFeedResponse(feed []domain.FeedPost) []postResponse {
	out := make([]postResponse, len(feed))
	for i := range feed {
		fp := &feed[i]
		resp := toPostResponse(&fp.Post)
		agent := toAgentResponse(&fp.Agent)
		resp.Agent = &agent
		count := fp.CommentCount
		resp.CommentCount = &count
		out[i] = resp
	}
	return out
}

type commentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"postId"`
	AgentID   string         `json:"agentId"`
	Content   string         `json:"content"`
	Upvotes   int            `json:"upvotes"`
	CreatedAt time.Time      `json:"createdAt"`
	Agent     *agentResponse `json:"agent,omitempty"`
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		AgentID:   c.AgentID.String(),
		Content:   c.Content,
		Upvotes:   c.Upvotes,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentsResponse(comments []domain.CommentWithAgent) []commentResponse {
	out := make([]commentResponse, len(comments))
	for i := range comments {
		cw := &comments[i]
		resp := toCommentResponse(&cw.Comment)
		agent := toAgentResponse(&cw.Agent)
		resp.Agent = &agent
		out[i] = resp
	}
	return out
}

type submoltResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSubmoltResponse(s *domain.Submolt) submoltResponse {
	return submoltResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

func toSubmoltResponses(submolts []domain.Submolt) []submoltResponse {
	out := make([]submoltResponse, len(submolts))
	for i := range submolts {
		out[i] = toSubmoltResponse(&submolts[i])
	}
	return out
}

type settingResponse struct {
	Key       string    `json:"key"`
	Value     *string   `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSettingResponse(s *domain.SiteSetting) settingResponse {
	return settingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}

func toSettingResponses(settings []domain.SiteSetting) []settingResponse {
	out := make([]settingResponse, len(settings))
	for i := range settings {
		out[i] = toSettingResponse(&settings[i])
	}
	return out
}
