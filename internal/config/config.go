package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL            = "http://localhost:3444"
	defaultHTTPTimeout       = 30 * time.Second
	defaultRequestsPerSecond = 10
)

// Config holds the application configuration.
type Config struct {
	AppEnv            string
	Debug             bool
	Version           string
	APIURL            string
	PrefsFile         string
	HTTPTimeout       time.Duration
	RequestsPerSecond int
	Language          string
	SentryDSN         string
	MongoDBURI        string
	MongoDBDatabase   string
	BotToken          string
	ChannelID         int64
}

// ActivityLogEnabled reports whether a MongoDB action log is configured.
func (c *Config) ActivityLogEnabled() bool {
	return c.MongoDBURI != "" && c.MongoDBDatabase != ""
}

// AnnouncementsEnabled reports whether Telegram announcements are configured.
func (c *Config) AnnouncementsEnabled() bool {
	return c.BotToken != "" && c.ChannelID != 0
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, err := strconv.ParseBool(getEnv("DEBUG", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", defaultHTTPTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", timeout)
	}

	rps, err := strconv.Atoi(getEnv("REQUESTS_PER_SECOND", strconv.Itoa(defaultRequestsPerSecond)))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUESTS_PER_SECOND: %w", err)
	}
	if rps < 0 {
		return nil, fmt.Errorf("REQUESTS_PER_SECOND cannot be negative, got %d", rps)
	}

	var channelID int64
	if channelIDStr := getEnv("CHANNEL_ID", ""); channelIDStr != "" {
		channelID, err = strconv.ParseInt(channelIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHANNEL_ID: %w", err)
		}
	}

	prefsFile := getEnv("THINKTANK_PREFS_FILE", "")
	if prefsFile == "" {
		prefsFile, err = defaultPrefsFile()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Debug:             debug,
		Version:           getEnv("VERSION", "dev"),
		APIURL:            getEnv("THINKTANK_API_URL", defaultAPIURL),
		PrefsFile:         prefsFile,
		HTTPTimeout:       timeout,
		RequestsPerSecond: rps,
		Language:          getEnv("LANGUAGE", "en"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		MongoDBURI:        getEnv("MONGODB_URI", ""),
		MongoDBDatabase:   getEnv("MONGODB_DATABASE", ""),
		BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChannelID:         channelID,
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("THINKTANK_API_URL must be an http(s) URL, got %q", cfg.APIURL)
	}
	if (cfg.MongoDBURI == "") != (cfg.MongoDBDatabase == "") {
		return nil, fmt.Errorf("MONGODB_URI and MONGODB_DATABASE must be set together")
	}
	if (cfg.BotToken == "") != (cfg.ChannelID == 0) {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and CHANNEL_ID must be set together")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}

	return cfg, nil
}

func defaultPrefsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory for THINKTANK_PREFS_FILE: %w", err)
	}
	return filepath.Join(home, ".thinktank", "prefs.json"), nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
