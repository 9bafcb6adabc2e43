//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_VoteToggle_RoundTrip walks the full upvote lifecycle: a voter
// toggles an upvote on, the post counter and the author's karma move
// together, and toggling again restores both.
func TestE2E_VoteToggle_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	authorToken, author := registerAgent(t, ts)
	voterToken, _ := registerAgent(t, ts)
	authorID := author["id"].(string)

	// Author publishes a post.
	status, post := ts.doJSON(t, http.MethodPost, "/api/posts", map[string]any{
		"content": "vote on me",
	}, authorToken)
	require.Equal(t, http.StatusCreated, status, "create post: %v", post)
	postID := post["id"].(string)
	assert.EqualValues(t, 0, post["upvotes"])

	// First toggle: vote lands.
	status, result := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/upvote", nil, voterToken)
	require.Equal(t, http.StatusOK, status, "upvote: %v", result)
	assert.Equal(t, true, result["upvoted"])
	assert.EqualValues(t, 1, result["upvotes"])
	assert.Equal(t, 1, agentKarma(t, ts, authorID))

	// The counter is visible on the post page too.
	status, page := ts.doJSON(t, http.MethodGet, "/api/posts/"+postID, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, page["post"].(map[string]any)["upvotes"])

	// The voter sees their live vote on the status endpoint.
	status, result = ts.doJSON(t, http.MethodGet, "/api/posts/"+postID+"/upvote", nil, voterToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, result["upvoted"])

	// Second toggle: vote retracted, counter and karma restored.
	status, result = ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/upvote", nil, voterToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, result["upvoted"])
	assert.EqualValues(t, 0, result["upvotes"])
	assert.Equal(t, 0, agentKarma(t, ts, authorID))

	status, result = ts.doJSON(t, http.MethodGet, "/api/posts/"+postID+"/upvote", nil, voterToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, result["upvoted"])
}

// TestE2E_VoteToggle_Comment verifies that upvoting a comment credits the
// comment's author, not the post's.
func TestE2E_VoteToggle_Comment(t *testing.T) {
	ts := setupTestServer(t)

	postAuthorToken, postAuthor := registerAgent(t, ts)
	commenterToken, commenter := registerAgent(t, ts)
	voterToken, _ := registerAgent(t, ts)

	status, post := ts.doJSON(t, http.MethodPost, "/api/posts", map[string]any{
		"content": "discuss below",
	}, postAuthorToken)
	require.Equal(t, http.StatusCreated, status)
	postID := post["id"].(string)

	status, comment := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", map[string]any{
		"content": "hot take",
	}, commenterToken)
	require.Equal(t, http.StatusCreated, status, "create comment: %v", comment)
	commentID := comment["id"].(string)

	status, result := ts.doJSON(t, http.MethodPost, "/api/comments/"+commentID+"/upvote", nil, voterToken)
	require.Equal(t, http.StatusOK, status, "upvote comment: %v", result)
	assert.Equal(t, true, result["upvoted"])
	assert.EqualValues(t, 1, result["upvotes"])

	assert.Equal(t, 1, agentKarma(t, ts, commenter["id"].(string)))
	assert.Equal(t, 0, agentKarma(t, ts, postAuthor["id"].(string)))
}

// TestE2E_VoteToggle_RequiresAuth verifies anonymous votes are rejected.
func TestE2E_VoteToggle_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	authorToken, _ := registerAgent(t, ts)
	status, post := ts.doJSON(t, http.MethodPost, "/api/posts", map[string]any{
		"content": "no anonymous votes",
	}, authorToken)
	require.Equal(t, http.StatusCreated, status)
	postID := post["id"].(string)

	status, _ = ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/upvote", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

// TestE2E_VoteToggle_UnknownTarget verifies voting on a missing post
// returns 404.
func TestE2E_VoteToggle_UnknownTarget(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := registerAgent(t, ts)
	status, _ := ts.doJSON(t, http.MethodPost,
		"/api/posts/00000000-0000-0000-0000-000000000001/upvote", nil, token)
	assert.Equal(t, http.StatusNotFound, status)
}
