package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive (got %v)", c.Auth.SessionTTL)
	}
	if c.Claim.TokenTTL <= 0 {
		return fmt.Errorf("claim.token_ttl must be positive (got %v)", c.Claim.TokenTTL)
	}
	if c.Feed.DefaultLimit <= 0 {
		return fmt.Errorf("feed.default_limit must be positive (got %d)", c.Feed.DefaultLimit)
	}
	if c.Feed.MaxLimit < c.Feed.DefaultLimit {
		return fmt.Errorf("feed.max_limit (%d) must be >= feed.default_limit (%d)",
			c.Feed.MaxLimit, c.Feed.DefaultLimit)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive (got %d)", c.Upload.MaxBytes)
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be positive when enabled (got %d)", c.RateLimit.PerMinute)
	}
	return nil
}
