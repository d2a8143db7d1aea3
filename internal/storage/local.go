// internal/storage/local.go
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

// tempMediaDir is the fixed directory under the served root used when no
// object-storage backend is configured.
const tempMediaDir = "temp-media"

// LocalStore writes media to local disk under the served public root so the
// files stay dereferenceable through the HTTP server.
type LocalStore struct {
	publicDir string
	baseURL   string
}

// NewLocalStore builds a local fallback store rooted at publicDir.
func NewLocalStore(publicDir, baseURL string) *LocalStore {
	return &LocalStore{publicDir: publicDir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload writes data to temp-media/name. Existing files are not replaced.
func (s *LocalStore) Upload(_ context.Context, data []byte, name string) (string, error) {
	dir := filepath.Join(s.publicDir, tempMediaDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, "failed to create media directory", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", apperrors.Newf(apperrors.KindBackendUnavailable, "media file %s already exists", name)
		}
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, "failed to write media file", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, "failed to write media file", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, tempMediaDir, name), nil
}
