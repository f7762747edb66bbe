package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string

	LogLevel string

	SessionFile string
	SnapshotDB  string
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required. The API base URL has no usable default: without
// it every request would go nowhere, so its absence is fatal.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := Config{
		APIBaseURL:  os.Getenv("API_BASE_URL"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		SessionFile: EnvDefault("SESSION_FILE", defaultStatePath("session.json")),
		SnapshotDB:  EnvDefault("SNAPSHOT_DB", defaultStatePath("snapshots.db")),
	}

	MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")

	return cfg
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func defaultStatePath(name string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "laterrassa-admin", name)
}
