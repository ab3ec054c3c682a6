package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Platforms PlatformsConfig
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	ConnectTimeout     time.Duration
}

// SchedulerConfig controls the periodic follower reconciliation job.
type SchedulerConfig struct {
	Enabled        bool
	UpdateInterval time.Duration
}

// PlatformsConfig aggregates per-vendor credential bundles. A bundle with
// missing required values leaves that platform's integration inactive; it is
// not a configuration error.
type PlatformsConfig struct {
	Twitter   TwitterConfig
	Facebook  FacebookConfig
	YouTube   YouTubeConfig
	Instagram InstagramConfig
	TikTok    TikTokConfig
}

// TwitterConfig holds Twitter API v2 credentials.
type TwitterConfig struct {
	BearerToken string
}

// FacebookConfig holds Facebook Graph API credentials.
type FacebookConfig struct {
	AppID       string
	AppSecret   string
	AccessToken string
}

// YouTubeConfig holds the YouTube Data API key.
type YouTubeConfig struct {
	APIKey string
}

// InstagramConfig holds the Instagram Graph API access token.
type InstagramConfig struct {
	AccessToken string
}

// TikTokConfig holds TikTok open API credentials. AccessToken is optional.
type TikTokConfig struct {
	APIKey      string
	APISecret   string
	AccessToken string
}

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultMaxConnections     = 25
	defaultMaxIdleConnections = 5
	defaultConnMaxLifetime    = 5 * time.Minute
	defaultConnectTimeout     = 10 * time.Second

	defaultUpdateInterval = 6 * time.Hour
)

// Load reads configuration from environment variables, applying defaults when
// values are not provided or invalid.
func Load() (Config, error) {
	// Cloud Run sets PORT, but allow SERVER_PORT override for local dev
	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("SERVER_PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Database: DatabaseConfig{
			URL:                os.Getenv("DATABASE_URL"),
			MaxConnections:     defaultMaxConnections,
			MaxIdleConnections: defaultMaxIdleConnections,
			ConnMaxLifetime:    defaultConnMaxLifetime,
			ConnectTimeout:     defaultConnectTimeout,
		},
		Scheduler: SchedulerConfig{
			Enabled:        getEnv("FOLLOWER_UPDATES_ENABLED", "true") != "false",
			UpdateInterval: defaultUpdateInterval,
		},
		Platforms: PlatformsConfig{
			Twitter: TwitterConfig{
				BearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
			},
			Facebook: FacebookConfig{
				AppID:       os.Getenv("FACEBOOK_APP_ID"),
				AppSecret:   os.Getenv("FACEBOOK_APP_SECRET"),
				AccessToken: os.Getenv("FACEBOOK_ACCESS_TOKEN"),
			},
			YouTube: YouTubeConfig{
				APIKey: os.Getenv("YOUTUBE_API_KEY"),
			},
			Instagram: InstagramConfig{
				AccessToken: os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
			},
			TikTok: TikTokConfig{
				APIKey:      os.Getenv("TIKTOK_API_KEY"),
				APISecret:   os.Getenv("TIKTOK_API_SECRET"),
				AccessToken: os.Getenv("TIKTOK_ACCESS_TOKEN"),
			},
		},
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("DATABASE_MAX_CONNECTIONS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DATABASE_MAX_CONNECTIONS: %w", err)
		}
		cfg.Database.MaxConnections = n
	}

	if v := os.Getenv("DATABASE_MAX_IDLE_CONNECTIONS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DATABASE_MAX_IDLE_CONNECTIONS: %w", err)
		}
		cfg.Database.MaxIdleConnections = n
	}

	if v := os.Getenv("FOLLOWER_UPDATE_INTERVAL_MINUTES"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FOLLOWER_UPDATE_INTERVAL_MINUTES: %w", err)
		}
		cfg.Scheduler.UpdateInterval = time.Duration(n) * time.Minute
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
