package models

import (
	"fmt"
	"time"
)

// Platform identifies a supported social network.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTelegram  Platform = "telegram"
)

// AllPlatforms lists every supported platform, in display order.
var AllPlatforms = []Platform{
	PlatformTwitter,
	PlatformFacebook,
	PlatformYouTube,
	PlatformInstagram,
	PlatformTikTok,
	PlatformTelegram,
}

// Valid reports whether p is a supported platform value.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformFacebook, PlatformYouTube,
		PlatformInstagram, PlatformTikTok, PlatformTelegram:
		return true
	}
	return false
}

// ParsePlatform converts a raw string into a Platform.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(raw)
	if !p.Valid() {
		return "", fmt.Errorf("unsupported platform: %q", raw)
	}
	return p, nil
}

// FollowerSnapshot is a single point in an account's follower time series.
// Snapshots are append-only: once written they are never mutated or removed.
type FollowerSnapshot struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// SocialAccount represents a social media profile whose audience size is
// tracked over time.
type SocialAccount struct {
	ID               string             `json:"id"`
	Platform         Platform           `json:"platform"`
	Username         string             `json:"username"` // stored without leading @
	URL              string             `json:"url,omitempty"`
	DisplayName      string             `json:"display_name,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	CurrentFollowers int64              `json:"current_followers"`
	FollowerHistory  []FollowerSnapshot `json:"follower_history"`
	LastUpdated      *time.Time         `json:"last_updated,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// LatestSnapshot returns the chronologically last history entry, or false
// when the history is empty.
func (a *SocialAccount) LatestSnapshot() (FollowerSnapshot, bool) {
	if len(a.FollowerHistory) == 0 {
		return FollowerSnapshot{}, false
	}
	return a.FollowerHistory[len(a.FollowerHistory)-1], true
}

// AccountRepository defines persistence operations for social accounts.
type AccountRepository interface {
	// Store creates or updates an account. New accounts upsert on
	// (platform, username); existing accounts update by ID.
	Store(account *SocialAccount) error

	// GetByID retrieves an account by ID. Returns (nil, nil) when absent.
	GetByID(id string) (*SocialAccount, error)

	// GetByPlatformAndUsername retrieves an account by its identity pair.
	GetByPlatformAndUsername(platform Platform, username string) (*SocialAccount, error)

	// ListAll returns every tracked account.
	ListAll() ([]*SocialAccount, error)

	// ListByPlatform returns all accounts for a given platform.
	ListByPlatform(platform Platform) ([]*SocialAccount, error)

	// UpdateTracking persists the outcome of a reconciliation run: the
	// latest follower count, the (possibly extended) history, and the
	// last-updated timestamp.
	UpdateTracking(id string, followers int64, history []FollowerSnapshot, lastUpdated time.Time) error

	// Delete removes an account.
	Delete(id string) error
}
