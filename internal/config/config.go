package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Port        string
	DatabaseURL string

	SessionSecret      string
	ClerkWebhookSecret string
	CookieDomain       string

	DiscordAdminWebhookURL string
	RedisURL               string

	AllowedOrigins []string

	LogEnv   string
	LogLevel string

	WebhookRateLimit  int
	WebhookRateWindow time.Duration
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "3000"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		ClerkWebhookSecret:     os.Getenv("CLERK_WEBHOOK_SECRET"),
		CookieDomain:           os.Getenv("COOKIE_DOMAIN"),
		DiscordAdminWebhookURL: os.Getenv("DISCORD_ADMIN_WEBHOOK_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		AllowedOrigins:         allowedOrigins(os.Getenv("CLIENT_URL"), os.Getenv("ALLOWED_ORIGINS")),
		LogEnv:                 getEnv("LOG_ENV", "dev"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is not set")
	}

	limit, err := strconv.Atoi(getEnv("WEBHOOK_RATE_LIMIT", "60"))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("invalid WEBHOOK_RATE_LIMIT: %q", os.Getenv("WEBHOOK_RATE_LIMIT"))
	}
	cfg.WebhookRateLimit = limit

	window, err := time.ParseDuration(getEnv("WEBHOOK_RATE_WINDOW", "1m"))
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("invalid WEBHOOK_RATE_WINDOW: %q", os.Getenv("WEBHOOK_RATE_WINDOW"))
	}
	cfg.WebhookRateWindow = window

	return cfg, nil
}

// RequireWebhookSecret is checked by the serve command only; migrate and purge
// run without it.
func (c *Config) RequireWebhookSecret() error {
	if c.ClerkWebhookSecret == "" {
		return errors.New("CLERK_WEBHOOK_SECRET environment variable is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func allowedOrigins(clientURL, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
