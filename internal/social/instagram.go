package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flockpulse/flockpulse/internal/config"
)

const defaultInstagramBaseURL = "https://graph.facebook.com/v19.0"

// InstagramClient resolves follower counts through the Instagram Graph API
// business-discovery flow. The configured access token must belong to a
// business or creator account; arbitrary personal profiles are not
// addressable through this API.
type InstagramClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger

	// cached after the first lookup; the token is bound to one account
	ownAccountID string
}

// NewInstagramClient creates a new Instagram Graph API client.
func NewInstagramClient(accessToken string, logger *slog.Logger) *InstagramClient {
	return &InstagramClient{
		accessToken: accessToken,
		baseURL:     defaultInstagramBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewInstagramClientFromConfig constructs a client from the
// environment-sourced credential bundle, or nil when the token is absent.
func NewInstagramClientFromConfig(cfg config.InstagramConfig, logger *slog.Logger) *InstagramClient {
	if cfg.AccessToken == "" {
		logger.Warn("instagram integration disabled: INSTAGRAM_ACCESS_TOKEN not set")
		return nil
	}
	return NewInstagramClient(cfg.AccessToken, logger)
}

type instagramAccountsResponse struct {
	Data []struct {
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account,omitempty"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type instagramDiscoveryResponse struct {
	BusinessDiscovery struct {
		Username       string `json:"username"`
		FollowersCount int64  `json:"followers_count"`
	} `json:"business_discovery"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// FollowerCount resolves the token's own business account ID, then uses
// business discovery to fetch followers_count for the target username.
func (c *InstagramClient) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	username := strings.TrimPrefix(identifier, "@")

	ownID, err := c.resolveOwnAccountID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve instagram business account: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?fields=business_discovery.username(%s){followers_count}&access_token=%s",
		c.baseURL, url.PathEscape(ownID), url.QueryEscape(username), url.QueryEscape(c.accessToken))

	var resp instagramDiscoveryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch instagram account %q: %w", username, err)
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("instagram API error: %s", resp.Error.Message)
	}

	return resp.BusinessDiscovery.FollowersCount, nil
}

func (c *InstagramClient) resolveOwnAccountID(ctx context.Context) (string, error) {
	if c.ownAccountID != "" {
		return c.ownAccountID, nil
	}

	endpoint := fmt.Sprintf("%s/me/accounts?fields=instagram_business_account&access_token=%s",
		c.baseURL, url.QueryEscape(c.accessToken))

	var resp instagramAccountsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("instagram API error: %s", resp.Error.Message)
	}

	for _, page := range resp.Data {
		if page.InstagramBusinessAccount != nil && page.InstagramBusinessAccount.ID != "" {
			c.ownAccountID = page.InstagramBusinessAccount.ID
			return c.ownAccountID, nil
		}
	}
	return "", fmt.Errorf("no instagram business account linked to token")
}

// ValidateCredentials checks that the token can resolve its own business
// account.
func (c *InstagramClient) ValidateCredentials(ctx context.Context) bool {
	if _, err := c.resolveOwnAccountID(ctx); err != nil {
		c.logger.Warn("instagram credential validation failed", "error", err)
		return false
	}
	return true
}

func (c *InstagramClient) getJSON(ctx context.Context, endpoint string, out any) error {
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
