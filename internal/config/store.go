package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// StoreConfig selects and configures the archive store.
type StoreConfig struct {
	Backend     string
	DatabaseURL string
	S3          S3Config
}

// S3Config holds the settings of an S3-compatible object store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// DefaultBucket is used when ARTIFACT_S3_BUCKET is unset.
const DefaultBucket = "swiftblocks-exports"

// StoreConfigFromEnv reads the store settings from the environment.
// backend overrides STORE_BACKEND when non-empty. The backend defaults to
// postgres when DATABASE_URL is set and to memory otherwise.
func StoreConfigFromEnv(backend string) (StoreConfig, error) {
	return storeConfigFromEnv(backend, "")
}

// StoreConfig resolves the store settings of c. Its store and database_url
// take precedence over STORE_BACKEND and DATABASE_URL.
func (c *Config) StoreConfig() (StoreConfig, error) {
	return storeConfigFromEnv(c.Store, c.DatabaseURL)
}

func storeConfigFromEnv(backend, databaseURL string) (StoreConfig, error) {
	cfg := StoreConfig{
		Backend:     firstNonEmpty(backend, env("STORE_BACKEND")),
		DatabaseURL: firstNonEmpty(databaseURL, env("DATABASE_URL")),
		S3: S3Config{
			Endpoint:  env("ARTIFACT_S3_ENDPOINT"),
			Region:    firstNonEmpty(env("ARTIFACT_S3_REGION"), "us-east-1"),
			AccessKey: firstNonEmpty(env("ARTIFACT_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
			SecretKey: firstNonEmpty(env("ARTIFACT_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
			Bucket:    firstNonEmpty(env("ARTIFACT_S3_BUCKET"), DefaultBucket),
		},
	}

	if raw := env("ARTIFACT_S3_USE_SSL"); raw != "" {
		useSSL, err := strconv.ParseBool(raw)
		if err != nil {
			return StoreConfig{}, fmt.Errorf("invalid ARTIFACT_S3_USE_SSL: %v", err)
		}
		cfg.S3.UseSSL = useSSL
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
		if cfg.DatabaseURL != "" {
			cfg.Backend = BackendPostgres
		}
	}

	if err := cfg.Validate(); err != nil {
		return StoreConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		return nil
	case BackendS3:
		if c.S3.Endpoint == "" {
			return fmt.Errorf("ARTIFACT_S3_ENDPOINT is required for the s3 store")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3 access key and secret key are required")
		}
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
