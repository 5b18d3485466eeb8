package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps photos on the server's own disk under a directory
// that the router serves statically. Meant for development; production
// deployments should configure a bucket instead.
type LocalStorage struct {
	dir     string
	urlPath string
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir, urlPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		urlPath: strings.TrimSuffix(urlPath, "/"),
	}, nil
}

// Save writes the object to disk.
func (s *LocalStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	path := filepath.Join(s.dir, filepath.Base(key))

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Delete removes the object; a missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns the static-serving path for the object.
func (s *LocalStorage) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.urlPath, filepath.Base(key))
}
