package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultBaseURL          = "http://localhost:8080"
	defaultVerifyCooldown   = 60 * time.Second
	defaultAlertAutoDismiss = 3 * time.Second
	defaultFeedPageSize     = 20
)

type Config struct {
	DatabaseURL      string
	HTTPAddr         string
	MetricsAddr      string
	BaseURL          string
	AuthCookieSecure bool
	RegistrationOpen bool
	DevSeedAdmin     bool
	ResendAPIKey     string
	MailFrom         string
	FeedPageSize     int
	VerifyCooldown   time.Duration
	AlertAutoDismiss time.Duration
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		HTTPAddr:         getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:      getenvDefault("METRICS_ADDR", "off"),
		BaseURL:          strings.TrimRight(getenvDefault("BASE_URL", defaultBaseURL), "/"),
		AuthCookieSecure: getenvBoolDefault("AUTH_COOKIE_SECURE", false),
		RegistrationOpen: getenvBoolDefault("REGISTRATION_OPEN", true),
		DevSeedAdmin:     getenvBoolDefault("DEV_SEED_ADMIN", false),
		ResendAPIKey:     strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		MailFrom:         getenvDefault("MAIL_FROM", "Angkasa <noreply@angkasa.local>"),
		FeedPageSize:     getenvIntDefault("FEED_PAGE_SIZE", defaultFeedPageSize),
		VerifyCooldown:   defaultVerifyCooldown,
		AlertAutoDismiss: defaultAlertAutoDismiss,
	}

	if v := os.Getenv("VERIFY_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.VerifyCooldown = d
		}
	}
	if v := os.Getenv("ALERT_AUTO_DISMISS"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.AlertAutoDismiss = d
		}
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
