package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// InsecureDefaultSecret is used when JWT_SECRET is unset. Never acceptable in prod.
const InsecureDefaultSecret = "insecure-dev-secret"

var ErrInsecureSecret = errors.New("JWT_SECRET must be set in prod")

type Config struct {
	Env   string
	Port  int
	DBURL string

	AutoMigrate bool

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	RedisURL        string
	SessionCache    string
	SessionCacheTTL time.Duration

	SweepSchedule    string
	WorkerHealthPort int

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64

	CORSAllowedOrigins []string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// UsesDefaultSecret reports whether the signing secret fell back to the built-in value.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == InsecureDefaultSecret
}

// SessionCacheBackend resolves SESSION_CACHE. "auto" means redis when REDIS_URL
// is set and no cache otherwise, so logout is seen by every API instance.
func (c Config) SessionCacheBackend() string {
	if c.SessionCache == "" || c.SessionCache == "auto" {
		if c.RedisURL != "" {
			return "redis"
		}
		return "none"
	}

	return c.SessionCache
}

// Validate rejects configurations that must never reach production.
func (c Config) Validate() error {
	if c.IsProd() && c.UsesDefaultSecret() {
		return ErrInsecureSecret
	}

	return nil
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: getEnv("DATABASE_URL", buildDBURL()),

		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),

		JWTSecret:  getEnv("JWT_SECRET", InsecureDefaultSecret),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 7*24)) * time.Hour,
		BcryptCost: getEnvInt("BCRYPT_COST", 12),

		RedisURL:        getEnv("REDIS_URL", ""),
		SessionCache:    strings.ToLower(getEnv("SESSION_CACHE", "auto")),
		SessionCacheTTL: time.Duration(getEnvInt("SESSION_CACHE_TTL_SECONDS", 60)) * time.Second,

		SweepSchedule:    getEnv("SESSION_SWEEP_SCHEDULE", "@every 1h"),
		WorkerHealthPort: getEnvInt("WORKER_HEALTH_PORT", 8081),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin User"),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "salon")
	pass := getEnv("DB_PASSWORD", "salon")
	name := getEnv("DB_NAME", "salon")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)

		if err != nil {
			slog.Warn("invalid number in environment, using default", "key", key, "value", v)
			return fallback
		}

		return f
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
