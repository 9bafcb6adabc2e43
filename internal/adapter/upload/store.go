// Package upload stores avatar images on local disk.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moltar-social/moltar-backend/internal/domain"
)

// extByContentType maps the accepted image MIME types to file extensions.
var extByContentType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes uploaded files under a single directory and serves them back
// by relative URL path.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed and returns a store.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Store) Dir() string { return s.dir }

// Save writes the upload to disk under a random name and returns the public
// URL path. Unknown content types and oversized bodies fail validation.
func (s *Store) Save(r io.Reader, contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", domain.NewValidationError("file", "unsupported image type")
	}

	name, err := randomName()
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	fileName := name + ext

	f, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	// Read one byte past the cap to distinguish at-limit from over-limit.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(f.Name())
		return "", domain.NewValidationError("file", fmt.Sprintf("too large (max %d bytes)", s.maxBytes))
	}

	return "/uploads/" + fileName, nil
}

func randomName() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
