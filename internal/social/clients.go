package social

import (
	"log/slog"

	"github.com/flockpulse/flockpulse/internal/config"
)

// Clients bundles every platform integration. Vendor clients whose
// credentials are absent are nil; the Telegram scraper needs none and is
// always available.
type Clients struct {
	Twitter   *TwitterClient
	Facebook  *FacebookClient
	YouTube   *YouTubeClient
	Instagram *InstagramClient
	TikTok    *TikTokClient
	Telegram  *TelegramScraper
}

// NewClients constructs the full client set from the environment-sourced
// platform configuration.
func NewClients(cfg config.PlatformsConfig, logger *slog.Logger) *Clients {
	return &Clients{
		Twitter:   NewTwitterClientFromConfig(cfg.Twitter, logger),
		Facebook:  NewFacebookClientFromConfig(cfg.Facebook, logger),
		YouTube:   NewYouTubeClientFromConfig(cfg.YouTube, logger),
		Instagram: NewInstagramClientFromConfig(cfg.Instagram, logger),
		TikTok:    NewTikTokClientFromConfig(cfg.TikTok, logger),
		Telegram:  NewTelegramScraper(logger),
	}
}
