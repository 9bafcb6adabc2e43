package domain

import (
	"testing"
	"time"
)

func TestClaimToken_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("not expired", func(t *testing.T) {
		t.Parallel()
		token := &ClaimToken{ExpiresAt: now.Add(24 * time.Hour)}
		if token.IsExpired(now) {
			t.Error("expected not expired")
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token := &ClaimToken{ExpiresAt: now.Add(-time.Minute)}
		if !token.IsExpired(now) {
			t.Error("expected expired")
		}
	})
}
