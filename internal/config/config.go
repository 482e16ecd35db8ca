package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// APIKey guards the /api routes. Empty disables auth (dev only).
	APIKey string
	// TrustedProxies lists proxy IPs whose X-Forwarded-For is honored.
	TrustedProxies []string

	// StorageBackend selects the state store: "postgres" or "memory".
	StorageBackend string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         string
	DBName         string

	// CatalogPath optionally points at a JSON catalog file that replaces
	// the compiled-in item/set/quest tables.
	CatalogPath string

	// ResetCheckInterval controls how often the scheduler sweeps quest
	// reset boundaries.
	ResetCheckInterval time.Duration

	// StateCacheSize and StateCacheTTL tune the LRU read cache in front
	// of the state store.
	StateCacheSize int
	StateCacheTTL  time.Duration

	DeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		ServiceName:    getEnv("SERVICE_NAME", "safequest-engine"),
		Version:        getEnv("VERSION", "dev"),
		StorageBackend: getEnv("STORAGE_BACKEND", "postgres"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "safequest"),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "events.deadletter.jsonl"),
		APIKey:         getEnv("API_KEY", ""),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	interval, err := time.ParseDuration(getEnv("RESET_CHECK_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_CHECK_INTERVAL value: %w", err)
	}
	cfg.ResetCheckInterval = interval

	cacheSize, err := strconv.Atoi(getEnv("STATE_CACHE_SIZE", "1024"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_CACHE_SIZE value: %w", err)
	}
	cfg.StateCacheSize = cacheSize

	cacheTTL, err := time.ParseDuration(getEnv("STATE_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_CACHE_TTL value: %w", err)
	}
	cfg.StateCacheTTL = cacheTTL

	if cfg.StorageBackend != "postgres" && cfg.StorageBackend != "memory" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND value: %s", cfg.StorageBackend)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
