package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Routes   RoutesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	IndexFile             string
	AssetsDir             string
}

// UpstreamConfig describes the back-office REST API the console talks to.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RatePerSecond  float64
	RateBurst      int
}

// SessionConfig controls where per-browser sessions are persisted.
type SessionConfig struct {
	Backend      string
	CookieName   string
	CookieSecure bool
	MaxActive    int
	TTLMinutes   int
	KeyPrefix    string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RoutesConfig points at the route table and menu definitions.
type RoutesConfig struct {
	RoutesFile       string
	MenuFile         string
	LoginPath        string
	UnauthorizedPath string
}

// Session storage backends.
const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ratePerSecond, err := strconv.ParseFloat(getEnv("UPSTREAM_RATE_PER_SECOND", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_RATE_PER_SECOND: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "freight-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			IndexFile:             os.Getenv("APP_INDEX_FILE"),
			AssetsDir:             os.Getenv("APP_ASSETS_DIR"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("UPSTREAM_BASE_URL", "http://127.0.0.1:5000/api"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 20),
			RatePerSecond:  ratePerSecond,
			RateBurst:      getEnvAsInt("UPSTREAM_RATE_BURST", 5),
		},
		Session: SessionConfig{
			Backend:      getEnv("SESSION_BACKEND", SessionBackendMemory),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "console_session"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			MaxActive:    getEnvAsInt("SESSION_MAX_ACTIVE", 10000),
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 0),
			KeyPrefix:    getEnv("SESSION_KEY_PREFIX", "console"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Routes: RoutesConfig{
			RoutesFile:       getEnv("ROUTES_FILE", "config/routes.yaml"),
			MenuFile:         getEnv("MENU_FILE", "config/menu.yaml"),
			LoginPath:        getEnv("LOGIN_PATH", "/login"),
			UnauthorizedPath: getEnv("UNAUTHORIZED_PATH", "/unauthorized"),
		},
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q", cfg.Session.Backend)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call upstream timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// TTL returns how long persisted session keys live in the backend. Zero keeps them forever.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
