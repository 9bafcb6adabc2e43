package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hitFrom(handler http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.RemoteAddr = addr
	handler.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_UnderBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(10)(okHandler())
	for i := range 10 {
		rec := hitFrom(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}
}

func TestRateLimiter_OverBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(5)(okHandler())
	for range 5 {
		assert.Equal(t, http.StatusOK, hitFrom(handler, "1.2.3.4:1234").Code)
	}

	rec := hitFrom(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_AddressesIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(2)(okHandler())
	for range 2 {
		hitFrom(handler, "1.1.1.1:1234")
	}

	// A second address has its own bucket.
	assert.Equal(t, http.StatusOK, hitFrom(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	// 60 per minute refills one token per second.
	handler := rl.Limit(60)(okHandler())
	for range 60 {
		hitFrom(handler, "3.3.3.3:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, hitFrom(handler, "3.3.3.3:1234").Code)

	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hitFrom(handler, "3.3.3.3:1234").Code)
}
