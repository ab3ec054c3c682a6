package api

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

// PlatformsHandler reports per-platform integration health.
type PlatformsHandler struct {
	clients *social.Clients
	logger  *slog.Logger
}

func NewPlatformsHandler(clients *social.Clients, logger *slog.Logger) *PlatformsHandler {
	return &PlatformsHandler{
		clients: clients,
		logger:  logger,
	}
}

// PlatformStatus is one platform's credential state.
type PlatformStatus struct {
	Platform         models.Platform `json:"platform"`
	Configured       bool            `json:"configured"`
	CredentialsValid bool            `json:"credentials_valid"`
}

// Status handles GET /api/platforms/status: runs a live credential check
// against every platform and reports which integrations are usable.
func (h *PlatformsHandler) Status(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	statuses := make([]PlatformStatus, 0, len(models.AllPlatforms))
	for _, platform := range models.AllPlatforms {
		handler, err := tracker.NewPlatformHandler(platform, h.clients, nil, h.logger)
		if err != nil {
			h.logger.Error("failed to build platform handler", "platform", platform, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		statuses = append(statuses, PlatformStatus{
			Platform:         platform,
			Configured:       h.configured(platform),
			CredentialsValid: handler.ValidateCredentials(ctx),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": statuses,
	})
}

func (h *PlatformsHandler) configured(platform models.Platform) bool {
	switch platform {
	case models.PlatformTwitter:
		return h.clients.Twitter != nil
	case models.PlatformFacebook:
		return h.clients.Facebook != nil
	case models.PlatformYouTube:
		return h.clients.YouTube != nil
	case models.PlatformInstagram:
		return h.clients.Instagram != nil
	case models.PlatformTikTok:
		return h.clients.TikTok != nil
	case models.PlatformTelegram:
		return true
	}
	return false
}
