package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the engine reads from the environment.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	Adjudicator AdjudicatorConfig
	R2          R2Config
	SMTP        SMTPConfig

	SweepInterval time.Duration
}

// AdjudicatorConfig points at the external evidence-verification service.
type AdjudicatorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// R2Config is the Cloudflare R2 bucket that stores evidence screenshots.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// SMTPConfig is the outbound mail account for organizer notifications.
// Leaving Host empty disables email and falls back to log-only delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	OpsInbox string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	adjTimeoutSec, err := intEnv("ADJUDICATOR_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	sweepIntervalSec, err := intEnv("SWEEP_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		Adjudicator: AdjudicatorConfig{
			BaseURL: os.Getenv("ADJUDICATOR_BASE_URL"),
			APIKey:  os.Getenv("ADJUDICATOR_API_KEY"),
			Timeout: time.Duration(adjTimeoutSec) * time.Second,
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			User:     os.Getenv("SMTP_USER"),
			Pass:     os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
			OpsInbox: os.Getenv("SMTP_OPS_INBOX"),
		},
		SweepInterval: time.Duration(sweepIntervalSec) * time.Second,
	}
	if cfg.Adjudicator.BaseURL == "" {
		return nil, fmt.Errorf("ADJUDICATOR_BASE_URL environment variable is not set")
	}
	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}
