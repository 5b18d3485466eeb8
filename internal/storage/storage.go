package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	cfg "github.com/myeventng/somarv26/internal/config"
)

// Storage is the external home for guest photos. Implementations must
// return a URL that is reachable without further authentication.
type Storage interface {
	// Save stores the object under key and returns once it is durable.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for the object.
	URL(key string) string
}

// New picks the storage backend from config: S3-compatible when a bucket is
// configured, local disk otherwise.
func New(c cfg.AppConfig) (Storage, error) {
	if c.S3Bucket != "" {
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
			PublicURL: c.S3PublicURL,
		})
	}
	return NewLocalStorage(c.UploadDir, c.UploadURLPath)
}

// ObjectKey builds a collision-free object key that keeps the original
// extension, e.g. 20260111-3f2a...c9.jpg.
func ObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
}
