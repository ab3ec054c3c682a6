package config

import (
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.Database.MaxConnections != defaultMaxConnections {
		t.Errorf("expected default max connections %d, got %d", defaultMaxConnections, cfg.Database.MaxConnections)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("expected scheduler enabled by default")
	}
	if cfg.Scheduler.UpdateInterval != defaultUpdateInterval {
		t.Errorf("expected default update interval %v, got %v", defaultUpdateInterval, cfg.Scheduler.UpdateInterval)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                      "9090",
		"SERVER_READ_TIMEOUT_SECONDS":      "30",
		"DATABASE_URL":                     "postgres://flockpulse@localhost/flockpulse",
		"DATABASE_MAX_CONNECTIONS":         "50",
		"FOLLOWER_UPDATE_INTERVAL_MINUTES": "15",
		"LOG_LEVEL":                        "debug",
		"LOG_FORMAT":                       "text",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port %q, got %q", "9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout %v, got %v", 30*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Database.URL != overrides["DATABASE_URL"] {
		t.Errorf("expected database url %q, got %q", overrides["DATABASE_URL"], cfg.Database.URL)
	}
	if cfg.Database.MaxConnections != 50 {
		t.Errorf("expected max connections 50, got %d", cfg.Database.MaxConnections)
	}
	if cfg.Scheduler.UpdateInterval != 15*time.Minute {
		t.Errorf("expected update interval %v, got %v", 15*time.Minute, cfg.Scheduler.UpdateInterval)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected log format %q, got %q", "text", cfg.Logging.Format)
	}
}

func TestLoadCloudRunPortWins(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Port != "8081" {
		t.Errorf("expected PORT to take precedence, got %q", cfg.Server.Port)
	}
}

func TestLoadPlatformCredentials(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("TWITTER_BEARER_TOKEN", "tw-token")
	t.Setenv("FACEBOOK_APP_ID", "fb-id")
	t.Setenv("FACEBOOK_APP_SECRET", "fb-secret")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "ig-token")
	t.Setenv("TIKTOK_API_KEY", "tt-key")
	t.Setenv("TIKTOK_API_SECRET", "tt-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Platforms.Twitter.BearerToken != "tw-token" {
		t.Errorf("twitter bearer token = %q", cfg.Platforms.Twitter.BearerToken)
	}
	if cfg.Platforms.Facebook.AppID != "fb-id" || cfg.Platforms.Facebook.AppSecret != "fb-secret" {
		t.Errorf("facebook bundle = %+v", cfg.Platforms.Facebook)
	}
	if cfg.Platforms.YouTube.APIKey != "yt-key" {
		t.Errorf("youtube api key = %q", cfg.Platforms.YouTube.APIKey)
	}
	if cfg.Platforms.Instagram.AccessToken != "ig-token" {
		t.Errorf("instagram access token = %q", cfg.Platforms.Instagram.AccessToken)
	}
	if cfg.Platforms.TikTok.APIKey != "tt-key" || cfg.Platforms.TikTok.APISecret != "tt-secret" {
		t.Errorf("tiktok bundle = %+v", cfg.Platforms.TikTok)
	}
}

func TestLoadSchedulerDisabled(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FOLLOWER_UPDATES_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Scheduler.Enabled {
		t.Error("expected scheduler disabled")
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":      "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS":     "abc",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS":  "3.5",
		"DATABASE_MAX_CONNECTIONS":         "0",
		"FOLLOWER_UPDATE_INTERVAL_MINUTES": "-5",
		"LOG_LEVEL":                        "verbose",
		"LOG_FORMAT":                       "xml",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func TestParsePositiveIntRejectsInvalidInput(t *testing.T) {
	cases := []string{"-1", "0", "abc", "3.5"}

	for _, input := range cases {
		if _, err := parsePositiveInt(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"DATABASE_URL",
		"DATABASE_MAX_CONNECTIONS",
		"DATABASE_MAX_IDLE_CONNECTIONS",
		"FOLLOWER_UPDATES_ENABLED",
		"FOLLOWER_UPDATE_INTERVAL_MINUTES",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"TWITTER_BEARER_TOKEN",
		"FACEBOOK_APP_ID",
		"FACEBOOK_APP_SECRET",
		"FACEBOOK_ACCESS_TOKEN",
		"YOUTUBE_API_KEY",
		"INSTAGRAM_ACCESS_TOKEN",
		"TIKTOK_API_KEY",
		"TIKTOK_API_SECRET",
		"TIKTOK_ACCESS_TOKEN",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
