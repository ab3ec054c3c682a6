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

const defaultTwitterBaseURL = "https://api.twitter.com"

// TwitterClient resolves follower counts through the Twitter API v2 using an
// app-only bearer token.
type TwitterClient struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewTwitterClient creates a new Twitter API client.
func NewTwitterClient(bearerToken string, logger *slog.Logger) *TwitterClient {
	return &TwitterClient{
		bearerToken: bearerToken,
		baseURL:     defaultTwitterBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewTwitterClientFromConfig constructs a client from the environment-sourced
// credential bundle. A missing bearer token yields nil: the integration is
// unavailable, not broken.
func NewTwitterClientFromConfig(cfg config.TwitterConfig, logger *slog.Logger) *TwitterClient {
	if cfg.BearerToken == "" {
		logger.Warn("twitter integration disabled: TWITTER_BEARER_TOKEN not set")
		return nil
	}
	return NewTwitterClient(cfg.BearerToken, logger)
}

type twitterUserResponse struct {
	Data struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		PublicMetrics struct {
			FollowersCount int64 `json:"followers_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors,omitempty"`
}

// FollowerCount resolves the user ID for the given handle, then fetches the
// account's public metrics and returns followers_count.
func (c *TwitterClient) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	username := strings.TrimPrefix(identifier, "@")

	userID, err := c.resolveUserID(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve twitter user %q: %w", username, err)
	}

	var resp twitterUserResponse
	endpoint := fmt.Sprintf("%s/2/users/%s?user.fields=public_metrics", c.baseURL, url.PathEscape(userID))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch twitter metrics for %q: %w", username, err)
	}

	return resp.Data.PublicMetrics.FollowersCount, nil
}

func (c *TwitterClient) resolveUserID(ctx context.Context, username string) (string, error) {
	var resp twitterUserResponse
	endpoint := fmt.Sprintf("%s/2/users/by/username/%s", c.baseURL, url.PathEscape(username))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("user not found")
	}
	return resp.Data.ID, nil
}

// ValidateCredentials issues a self-lookup and reports whether it succeeded.
// Failures are folded into false, never an error.
func (c *TwitterClient) ValidateCredentials(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/2/users/me", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("twitter credential validation failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("twitter credential validation rejected", "status", resp.StatusCode)
		return false
	}
	return true
}

func (c *TwitterClient) getJSON(ctx context.Context, endpoint string, out *twitterUserResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

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

	if resp.StatusCode != http.StatusOK {
		if len(out.Errors) > 0 {
			return fmt.Errorf("twitter API error: %s", out.Errors[0].Detail)
		}
		return fmt.Errorf("twitter API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
