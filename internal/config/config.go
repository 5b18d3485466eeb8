package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig collects everything the server needs at boot.
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string

	// Object storage. When S3Bucket is empty the server falls back to
	// local-disk storage under UploadDir, served at UploadURLPath.
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string
	S3PublicURL   string
	UploadDir     string
	UploadURLPath string

	// Upload pipeline bounds.
	MaxBatchFiles int

	// Email relay.
	ResendAPIKey string
	EmailFrom    string
	AdminEmail   string

	// Bootstrap admin credential, created at startup when both are set.
	AdminBootstrapEmail    string
	AdminBootstrapPassword string

	SiteBaseURL string
}

// Load reads the application config from the environment, providing safe
// defaults for everything that is optional.
func Load() AppConfig {
	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	maxBatch := 5
	if raw := strings.TrimSpace(os.Getenv("MAX_BATCH_FILES")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxBatch = parsed
		}
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  envOr("DATABASE_PATH", "somarv26.db"),
		SessionSecret: envOr("SESSION_SECRET", "somarv26-dev-secret"),
		GinMode:       envOr("GIN_MODE", "release"),

		S3Region:      envOr("S3_REGION", "auto"),
		S3Bucket:      strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3AccessKey:   strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:   strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3Endpoint:    strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3PublicURL:   strings.TrimSpace(os.Getenv("S3_PUBLIC_URL")),
		UploadDir:     envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath: envOr("UPLOAD_URL_PATH", "/static/uploads"),

		MaxBatchFiles: maxBatch,

		ResendAPIKey: strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		EmailFrom:    envOr("EMAIL_FROM", "Somarv26 <noreply@somarv26.com>"),
		AdminEmail:   strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),

		AdminBootstrapEmail:    strings.TrimSpace(os.Getenv("ADMIN_BOOTSTRAP_EMAIL")),
		AdminBootstrapPassword: strings.TrimSpace(os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")),

		SiteBaseURL: envOr("SITE_BASE_URL", "https://somarv26.com"),
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
