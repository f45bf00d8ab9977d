package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr          string
	DatabaseURL       string
	JWTSecret         string
	TokenTTL          time.Duration
	AllowedOrigins    []string
	TelegramToken     string // empty disables the Telegram reminder channel
	CoachURL          string
	CoachAPIKey       string
	PaymentURL        string
	SyncURL           string
	SyncToken         string
	ReminderLookahead time.Duration
	DigestTime        string // HH:MM for the morning digest
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:          strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:          parseDuration(os.Getenv("TOKEN_TTL_HOURS")),
		AllowedOrigins:    parseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		CoachURL:          strings.TrimSpace(os.Getenv("COACH_URL")),
		CoachAPIKey:       strings.TrimSpace(os.Getenv("COACH_API_KEY")),
		PaymentURL:        strings.TrimSpace(os.Getenv("PAYMENT_URL")),
		SyncURL:           strings.TrimSpace(os.Getenv("SYNC_URL")),
		SyncToken:         strings.TrimSpace(os.Getenv("SYNC_TOKEN")),
		ReminderLookahead: parseDuration(os.Getenv("REMINDER_LOOKAHEAD_HOURS")),
		DigestTime:        strings.TrimSpace(os.Getenv("DIGEST_TIME")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "habitflow.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.ReminderLookahead == 0 {
		cfg.ReminderLookahead = 24 * time.Hour
	}
	if cfg.DigestTime == "" {
		cfg.DigestTime = "08:00"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseDuration(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
