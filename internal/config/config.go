package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	DatabaseDSN    string
	MigrateOnStart bool

	JWTSecret  string
	JWTExpiry  time.Duration
	CookieName string

	// LoginPath is where the route guard sends unauthenticated visitors.
	LoginPath      string
	ProtectedPaths []string

	RateLimitRPS   float64
	RateLimitBurst int
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/coinboard?parseTime=true"),
		MigrateOnStart: getBool("MIGRATE_ON_START", true),
		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		JWTExpiry:      getDuration("JWT_EXPIRY", 30*24*time.Hour),
		CookieName:     getEnv("SESSION_COOKIE", "coinboard_session"),
		LoginPath:      getEnv("LOGIN_PATH", "/login"),
		ProtectedPaths: getList("PROTECTED_PATHS", []string{"/portfolio", "/spin"}),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.IsProduction() && cfg.JWTSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}

// getList splits a comma separated value, dropping blanks.
func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
