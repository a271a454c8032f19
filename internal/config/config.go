package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	Port            string
	ShutdownTimeout time.Duration

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	DBTimeout    time.Duration
	AutoMigrate  bool

	// Security
	JWTSecret string

	// Redis (optional, in-memory fallback when REDIS_ADDR is empty)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ProgressCacheTTL time.Duration
	IdempotencyTTL   time.Duration

	// Dashboard
	RecentActivityLimit int

	// Observability (optional)
	SentryDSN string

	// Export storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:         envString("APP_NAME", "Stridelog"),
		AppEnv:          envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:            envString("PORT", "8090"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/stridelog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBTimeout:    envDuration("DB_TIMEOUT", 5*time.Second),
		AutoMigrate:  envBool("DB_AUTO_MIGRATE", true), // stridectl migrates when disabled

		// Security
		JWTSecret: envRequired("JWT_SECRET"),

		// Redis
		RedisAddr:        envString("REDIS_ADDR", ""),
		RedisPassword:    envString("REDIS_PASSWORD", ""),
		RedisDB:          envInt("REDIS_DB", 0),
		ProgressCacheTTL: envDuration("PROGRESS_CACHE_TTL", 10*time.Minute),
		IdempotencyTTL:   envDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		// Dashboard
		RecentActivityLimit: envInt("RECENT_ACTIVITY_LIMIT", 5),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),                   // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour), // Export download links
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// LoadDatabase reads only the database settings, for operator tooling that
// never serves requests.
func LoadDatabase() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:       envString("APP_ENV", "development"),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/stridelog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBTimeout:    envDuration("DB_TIMEOUT", 5*time.Second),
	}
}

// validateProduction refuses settings that are only acceptable locally.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
