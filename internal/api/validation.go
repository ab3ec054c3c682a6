package api

import (
	"fmt"
	"strings"

	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
)

// normalizeUsername strips the decorations users paste in with a handle.
func normalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}

// usernameFromURL tries the platform's URL extractor so an account can be
// created from a pasted profile link alone.
func usernameFromURL(platform models.Platform, profileURL string) (string, bool) {
	switch platform {
	case models.PlatformTwitter:
		return social.ExtractTwitterUsername(profileURL)
	case models.PlatformFacebook:
		return social.ExtractFacebookUsername(profileURL)
	case models.PlatformYouTube:
		return social.ExtractYouTubeIdentifier(profileURL)
	case models.PlatformInstagram:
		return social.ExtractInstagramUsername(profileURL)
	case models.PlatformTikTok:
		return social.ExtractTikTokUsername(profileURL)
	case models.PlatformTelegram:
		return social.ExtractTelegramUsername(profileURL)
	}
	return "", false
}

// validateAccount checks a create/update request, filling the username from
// the URL when possible.
func validateAccount(account *models.SocialAccount) error {
	if !account.Platform.Valid() {
		return fmt.Errorf("unsupported platform: %q", account.Platform)
	}

	account.Username = normalizeUsername(account.Username)
	account.URL = strings.TrimSpace(account.URL)

	if account.Username == "" && account.URL != "" {
		if extracted, ok := usernameFromURL(account.Platform, account.URL); ok {
			account.Username = strings.TrimPrefix(extracted, "@")
		}
	}

	if account.Username == "" {
		return fmt.Errorf("username is required (or a parseable profile url)")
	}
	return nil
}
