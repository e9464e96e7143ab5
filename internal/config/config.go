package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Reports  ReportsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
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

// AuthConfig holds the secret used to verify externally issued bearer tokens.
// An empty secret disables token checks.
type AuthConfig struct {
	JWTSecret string
}

// ReportsConfig tunes the report engine.
type ReportsConfig struct {
	Timezone            string
	NameCacheTTLSeconds int
	TopLimit            int
	QueryTimeoutSeconds int
	SeedDemoDemands     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "demand-analytics"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Reports: ReportsConfig{
			Timezone:            getEnv("REPORTS_TIMEZONE", "Local"),
			NameCacheTTLSeconds: getEnvAsInt("REPORTS_NAME_CACHE_TTL_SECONDS", 300),
			TopLimit:            getEnvAsInt("REPORTS_TOP_LIMIT", 10),
			QueryTimeoutSeconds: getEnvAsInt("REPORTS_QUERY_TIMEOUT_SECONDS", 20),
			SeedDemoDemands:     getEnvAsInt("REPORTS_SEED_DEMO_DEMANDS", 500),
		},
	}

	if _, err := cfg.Reports.Location(); err != nil {
		return nil, fmt.Errorf("invalid REPORTS_TIMEZONE: %w", err)
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

// Location resolves the timezone deadlines and monthly buckets are computed in.
func (r ReportsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// NameCacheTTL returns how long resolved names stay cached.
func (r ReportsConfig) NameCacheTTL() time.Duration {
	if r.NameCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.NameCacheTTLSeconds) * time.Second
}

// QueryTimeout bounds a single report generation; zero leaves it to the caller.
func (r ReportsConfig) QueryTimeout() time.Duration {
	if r.QueryTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.QueryTimeoutSeconds) * time.Second
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
