package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flockpulse/flockpulse/internal/config"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// A known-stable public channel used for credential validation.
const youtubeValidationChannelID = "UC_x5XG1OV2P6uZZ5FSM9Ttw" // Google Developers

// YouTubeClient resolves subscriber counts through the YouTube Data API v3.
//
// Channels are addressable three ways: legacy usernames (forUsername),
// handles (forHandle, used when the identifier starts with @ or contains a
// slash) and raw channel IDs. When a direct lookup comes back empty the
// client falls back to a channel search, then refetches by the resolved ID —
// this covers custom /c/ URLs that match none of the direct modes.
type YouTubeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewYouTubeClient creates a new YouTube Data API client.
func NewYouTubeClient(apiKey string, logger *slog.Logger) *YouTubeClient {
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: defaultYouTubeBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewYouTubeClientFromConfig constructs a client from the environment-sourced
// credential bundle, or nil when the API key is absent.
func NewYouTubeClientFromConfig(cfg config.YouTubeConfig, logger *slog.Logger) *YouTubeClient {
	if cfg.APIKey == "" {
		logger.Warn("youtube integration disabled: YOUTUBE_API_KEY not set")
		return nil
	}
	return NewYouTubeClient(cfg.APIKey, logger)
}

type youtubeChannelList struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount       string `json:"subscriberCount"`
			HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type youtubeSearchList struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// FollowerCount returns the subscriber count for a channel identified by a
// channel ID, a handle, a legacy username or a custom URL fragment. Channels
// with hidden subscriber counts report 0 rather than a fabricated number.
func (c *YouTubeClient) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return 0, fmt.Errorf("empty youtube identifier")
	}

	list, err := c.lookupChannel(ctx, identifier)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch youtube channel %q: %w", identifier, err)
	}

	if len(list.Items) == 0 {
		// Custom URLs and stale usernames miss the direct modes; resolve
		// through a channel search and refetch by ID.
		channelID, err := c.searchChannelID(ctx, identifier)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve youtube channel %q: %w", identifier, err)
		}

		list, err = c.channelsByParam(ctx, "id", channelID)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch youtube channel %q by id: %w", identifier, err)
		}
		if len(list.Items) == 0 {
			return 0, fmt.Errorf("youtube channel %q not found", identifier)
		}
	}

	stats := list.Items[0].Statistics
	if stats.HiddenSubscriberCount {
		c.logger.Info("youtube channel hides subscriber count", "identifier", identifier)
		return 0, nil
	}

	count, err := strconv.ParseInt(stats.SubscriberCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subscriberCount %q: %w", stats.SubscriberCount, err)
	}
	return count, nil
}

func (c *YouTubeClient) lookupChannel(ctx context.Context, identifier string) (*youtubeChannelList, error) {
	switch {
	case isChannelID(identifier):
		return c.channelsByParam(ctx, "id", identifier)
	case strings.HasPrefix(identifier, "@") || strings.Contains(identifier, "/"):
		handle := identifier
		if idx := strings.LastIndex(handle, "/"); idx >= 0 {
			handle = handle[idx+1:]
		}
		return c.channelsByParam(ctx, "forHandle", handle)
	default:
		return c.channelsByParam(ctx, "forUsername", identifier)
	}
}

func isChannelID(identifier string) bool {
	return strings.HasPrefix(identifier, "UC") && len(identifier) == 24
}

func (c *YouTubeClient) channelsByParam(ctx context.Context, param, value string) (*youtubeChannelList, error) {
	endpoint := fmt.Sprintf("%s/channels?part=statistics&%s=%s&key=%s",
		c.baseURL, param, url.QueryEscape(value), url.QueryEscape(c.apiKey))

	var list youtubeChannelList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	if list.Error != nil {
		return nil, fmt.Errorf("youtube API error: %s", list.Error.Message)
	}
	return &list, nil
}

func (c *YouTubeClient) searchChannelID(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/search?part=snippet&type=channel&maxResults=1&q=%s&key=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	var list youtubeSearchList
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return "", err
	}
	if list.Error != nil {
		return "", fmt.Errorf("youtube API error: %s", list.Error.Message)
	}
	if len(list.Items) == 0 || list.Items[0].ID.ChannelID == "" {
		return "", fmt.Errorf("no channel matched search")
	}
	return list.Items[0].ID.ChannelID, nil
}

// ValidateCredentials fetches a known-stable public channel and reports
// whether the API key is accepted.
func (c *YouTubeClient) ValidateCredentials(ctx context.Context) bool {
	list, err := c.channelsByParam(ctx, "id", youtubeValidationChannelID)
	if err != nil {
		c.logger.Warn("youtube credential validation failed", "error", err)
		return false
	}
	return len(list.Items) > 0
}

func (c *YouTubeClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
