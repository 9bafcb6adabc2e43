package app

import "fmt"

// Version, Commit, and BuildTime are stamped at build time, e.g.
// go build -ldflags "-X github.com/moltar-social/moltar-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the stamped build info for startup logs and the
// health endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
