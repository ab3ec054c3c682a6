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

const defaultFacebookBaseURL = "https://graph.facebook.com/v19.0"

// FacebookClient resolves page follower counts through the Facebook Graph
// API. Page lookups use the configured access token; credential validation
// falls back to the app access token (app_id|app_secret) when needed.
type FacebookClient struct {
	appID       string
	appSecret   string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewFacebookClient creates a new Facebook Graph API client.
func NewFacebookClient(appID, appSecret, accessToken string, logger *slog.Logger) *FacebookClient {
	return &FacebookClient{
		appID:       appID,
		appSecret:   appSecret,
		accessToken: accessToken,
		baseURL:     defaultFacebookBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewFacebookClientFromConfig constructs a client from the environment-sourced
// credential bundle, or nil when any required value is absent.
func NewFacebookClientFromConfig(cfg config.FacebookConfig, logger *slog.Logger) *FacebookClient {
	if cfg.AppID == "" || cfg.AppSecret == "" || cfg.AccessToken == "" {
		logger.Warn("facebook integration disabled: FACEBOOK_APP_ID, FACEBOOK_APP_SECRET and FACEBOOK_ACCESS_TOKEN must all be set")
		return nil
	}
	return NewFacebookClient(cfg.AppID, cfg.AppSecret, cfg.AccessToken, logger)
}

type facebookPageResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FollowersCount int64  `json:"followers_count"`
	Error          *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// FollowerCount resolves the page ID behind the given username or page slug,
// then fetches the page's followers_count.
func (c *FacebookClient) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	identifier = strings.TrimPrefix(identifier, "@")

	pageID, err := c.resolvePageID(ctx, identifier)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve facebook page %q: %w", identifier, err)
	}

	endpoint := fmt.Sprintf("%s/%s?fields=id,name,followers_count&access_token=%s",
		c.baseURL, url.PathEscape(pageID), url.QueryEscape(c.accessToken))

	var page facebookPageResponse
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return 0, fmt.Errorf("failed to fetch facebook page %q: %w", identifier, err)
	}

	return page.FollowersCount, nil
}

func (c *FacebookClient) resolvePageID(ctx context.Context, identifier string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=id&access_token=%s",
		c.baseURL, url.PathEscape(identifier), url.QueryEscape(c.accessToken))

	var page facebookPageResponse
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return "", err
	}
	if page.ID == "" {
		return "", fmt.Errorf("page not found")
	}
	return page.ID, nil
}

// ValidateCredentials performs a token self-inspection against the Graph API
// and reports whether the stored token is usable.
func (c *FacebookClient) ValidateCredentials(ctx context.Context) bool {
	appToken := c.appID + "|" + c.appSecret
	endpoint := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		c.baseURL, url.QueryEscape(c.accessToken), url.QueryEscape(appToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("facebook credential validation failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("facebook credential validation rejected", "status", resp.StatusCode)
		return false
	}
	return true
}

func (c *FacebookClient) getJSON(ctx context.Context, endpoint string, out *facebookPageResponse) error {
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

	if out.Error != nil {
		return fmt.Errorf("facebook API error: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
