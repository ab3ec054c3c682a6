package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
)

// PlatformHandler is the uniform adapter over the per-vendor clients. Its
// contract deliberately has no error path: vendor and network failures are
// logged and folded into a zero count so the tracking service stays simple.
type PlatformHandler interface {
	// FollowerCount resolves the canonical identifier (preferring the
	// stored URL over the username) and returns the current audience
	// size, or 0 on any failure.
	FollowerCount(ctx context.Context, username, profileURL string) int64

	// ValidateCredentials reports whether the platform's stored
	// credentials are usable.
	ValidateCredentials(ctx context.Context) bool
}

// FetchObserver receives the outcome of every vendor fetch. Implemented by
// the metrics collector; may be nil.
type FetchObserver interface {
	ObserveFetch(platform models.Platform, ok bool)
}

// followerClient is the slice of a vendor client the facade needs.
type followerClient interface {
	FollowerCount(ctx context.Context, identifier string) (int64, error)
	ValidateCredentials(ctx context.Context) bool
}

// NewPlatformHandler returns the handler for the given platform. An
// unsupported platform value is a schema mismatch, and the one failure this
// factory propagates rather than absorbs.
func NewPlatformHandler(platform models.Platform, clients *social.Clients, obs FetchObserver, logger *slog.Logger) (PlatformHandler, error) {
	switch platform {
	case models.PlatformTwitter:
		if clients.Twitter == nil {
			return &disabledHandler{platform: platform, obs: obs, logger: logger}, nil
		}
		return &vendorHandler{platform: platform, client: clients.Twitter, extract: social.ExtractTwitterUsername, obs: obs, logger: logger}, nil
	case models.PlatformFacebook:
		if clients.Facebook == nil {
			return &disabledHandler{platform: platform, obs: obs, logger: logger}, nil
		}
		return &vendorHandler{platform: platform, client: clients.Facebook, extract: social.ExtractFacebookUsername, obs: obs, logger: logger}, nil
	case models.PlatformYouTube:
		if clients.YouTube == nil {
			return &disabledHandler{platform: platform, obs: obs, logger: logger}, nil
		}
		return &vendorHandler{platform: platform, client: clients.YouTube, extract: social.ExtractYouTubeIdentifier, obs: obs, logger: logger}, nil
	case models.PlatformInstagram:
		if clients.Instagram == nil {
			return &disabledHandler{platform: platform, obs: obs, logger: logger}, nil
		}
		return &vendorHandler{platform: platform, client: clients.Instagram, extract: social.ExtractInstagramUsername, obs: obs, logger: logger}, nil
	case models.PlatformTikTok:
		if clients.TikTok == nil {
			return &disabledHandler{platform: platform, obs: obs, logger: logger}, nil
		}
		return &vendorHandler{platform: platform, client: clients.TikTok, extract: social.ExtractTikTokUsername, obs: obs, logger: logger}, nil
	case models.PlatformTelegram:
		return &telegramHandler{scraper: clients.Telegram, obs: obs, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %q", platform)
	}
}

// vendorHandler adapts an API-backed client to the facade contract.
type vendorHandler struct {
	platform models.Platform
	client   followerClient
	extract  func(string) (string, bool)
	obs      FetchObserver
	logger   *slog.Logger
}

func (h *vendorHandler) FollowerCount(ctx context.Context, username, profileURL string) int64 {
	identifier := username
	if profileURL != "" {
		if extracted, ok := h.extract(profileURL); ok {
			identifier = extracted
		}
	}

	count, err := h.client.FollowerCount(ctx, identifier)
	if err != nil {
		h.logger.Warn("follower fetch failed",
			"platform", h.platform,
			"identifier", identifier,
			"error", err)
		h.observe(false)
		return 0
	}

	h.observe(true)
	return count
}

func (h *vendorHandler) ValidateCredentials(ctx context.Context) bool {
	return h.client.ValidateCredentials(ctx)
}

func (h *vendorHandler) observe(ok bool) {
	if h.obs != nil {
		h.obs.ObserveFetch(h.platform, ok)
	}
}

// disabledHandler stands in for a platform whose credentials are not
// configured: a zero count and failed validation, never an error.
type disabledHandler struct {
	platform models.Platform
	obs      FetchObserver
	logger   *slog.Logger
}

func (h *disabledHandler) FollowerCount(ctx context.Context, username, profileURL string) int64 {
	h.logger.Warn("integration unavailable, reporting zero followers",
		"platform", h.platform,
		"username", username)
	if h.obs != nil {
		h.obs.ObserveFetch(h.platform, false)
	}
	return 0
}

func (h *disabledHandler) ValidateCredentials(ctx context.Context) bool {
	return false
}

// telegramHandler wraps the scraper, which needs no credentials and reports
// failures as zero on its own.
type telegramHandler struct {
	scraper *social.TelegramScraper
	obs     FetchObserver
	logger  *slog.Logger
}

func (h *telegramHandler) FollowerCount(ctx context.Context, username, profileURL string) int64 {
	identifier := username
	if profileURL != "" {
		if extracted, ok := social.ExtractTelegramUsername(profileURL); ok {
			identifier = extracted
		}
	}

	count, _ := h.scraper.FollowerCount(ctx, identifier)
	if h.obs != nil {
		h.obs.ObserveFetch(models.PlatformTelegram, count > 0)
	}
	return count
}

func (h *telegramHandler) ValidateCredentials(ctx context.Context) bool {
	// No credential to validate; the scrape works whenever t.me does.
	return true
}
