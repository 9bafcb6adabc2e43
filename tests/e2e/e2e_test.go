//go:build e2e

package e2e_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_LiveEndpoint verifies the /live liveness probe returns 200 OK.
func TestE2E_LiveEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/live")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// TestE2E_ReadyEndpoint verifies the /ready readiness probe returns 200 OK
// when the database is reachable.
func TestE2E_ReadyEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// TestE2E_HealthEndpoint verifies the /health endpoint returns 200 with
// version and database component status.
func TestE2E_HealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])

	components, ok := body["components"].(map[string]any)
	require.True(t, ok, "expected components object")

	db, ok := components["database"].(map[string]any)
	require.True(t, ok, "expected database component")
	assert.Equal(t, "ok", db["status"])
}

// TestE2E_RequestID_InResponse verifies that every response from the
// middleware stack includes an X-Request-Id header.
func TestE2E_RequestID_InResponse(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/api/feed")
	require.NoError(t, err)
	defer resp.Body.Close()

	requestID := resp.Header.Get("X-Request-Id")
	assert.NotEmpty(t, requestID, "response should include X-Request-Id header")

	_, err = uuid.Parse(requestID)
	assert.NoError(t, err, "X-Request-Id should be a valid UUID")
}

// TestE2E_CORS_Preflight verifies that an OPTIONS preflight request returns
// the appropriate Access-Control-Allow-* headers.
func TestE2E_CORS_Preflight(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/feed", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization,Content-Type")

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Headers"))
}

// TestE2E_UnknownRoute verifies unmatched paths return 404.
func TestE2E_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/api/no-such-route")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
