package social

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/flockpulse/flockpulse/internal/config"
)

const defaultTikTokBaseURL = "https://open-api.tiktok.com"

// TikTokClient resolves follower counts through the TikTok open API. Every
// request carries an HMAC-SHA256 signature over the method, path, sorted
// parameters, timestamp and credentials.
type TikTokClient struct {
	apiKey      string
	apiSecret   string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewTikTokClient creates a new TikTok open API client.
func NewTikTokClient(apiKey, apiSecret, accessToken string, logger *slog.Logger) *TikTokClient {
	return &TikTokClient{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		accessToken: accessToken,
		baseURL:     defaultTikTokBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewTikTokClientFromConfig constructs a client from the environment-sourced
// credential bundle, or nil when the key or secret is absent. The access
// token is optional.
func NewTikTokClientFromConfig(cfg config.TikTokConfig, logger *slog.Logger) *TikTokClient {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		logger.Warn("tiktok integration disabled: TIKTOK_API_KEY and TIKTOK_API_SECRET must be set")
		return nil
	}
	return NewTikTokClient(cfg.APIKey, cfg.APISecret, cfg.AccessToken, logger)
}

// signTikTokRequest computes the request signature: HMAC-SHA256 over the
// concatenation of method, path, the parameter string (keys sorted
// ascending, key=value pairs joined by &), timestamp, access token (empty
// string when unset) and app key, keyed by the app secret, hex-encoded.
func signTikTokRequest(method, path string, params map[string]string, timestamp, accessToken, appKey, appSecret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	paramString := strings.Join(pairs, "&")

	base := method + path + paramString + timestamp + accessToken + appKey

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

// FollowerCount resolves the open_id behind the given username, then fetches
// the user's stats and returns follower_count.
func (c *TikTokClient) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	username := strings.TrimPrefix(identifier, "@")

	openID, err := c.resolveOpenID(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tiktok user %q: %w", username, err)
	}

	body, err := c.signedGet(ctx, "/user/info/", map[string]string{
		"open_id": openID,
		"fields":  "open_id,display_name,follower_count",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch tiktok stats for %q: %w", username, err)
	}

	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return 0, fmt.Errorf("tiktok API error: %s", msg)
	}

	count := gjson.GetBytes(body, "data.user.follower_count")
	if !count.Exists() {
		return 0, fmt.Errorf("tiktok response missing follower_count")
	}
	return count.Int(), nil
}

func (c *TikTokClient) resolveOpenID(ctx context.Context, username string) (string, error) {
	body, err := c.signedGet(ctx, "/user/lookup/", map[string]string{
		"username": username,
	})
	if err != nil {
		return "", err
	}

	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return "", fmt.Errorf("tiktok API error: %s", msg)
	}

	openID := gjson.GetBytes(body, "data.user.open_id").String()
	if openID == "" {
		return "", fmt.Errorf("user not found")
	}
	return openID, nil
}

// ValidateCredentials issues a minimal signed self-lookup and reports whether
// the key pair is accepted.
func (c *TikTokClient) ValidateCredentials(ctx context.Context) bool {
	body, err := c.signedGet(ctx, "/oauth/token/validate/", map[string]string{})
	if err != nil {
		c.logger.Warn("tiktok credential validation failed", "error", err)
		return false
	}
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" && msg != "ok" {
		c.logger.Warn("tiktok credential validation rejected", "message", msg)
		return false
	}
	return true
}

func (c *TikTokClient) signedGet(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	signed := make(map[string]string, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	signed["app_key"] = c.apiKey
	signed["timestamp"] = timestamp
	if c.accessToken != "" {
		signed["access_token"] = c.accessToken
	}

	signature := signTikTokRequest(http.MethodGet, path, signed, timestamp, c.accessToken, c.apiKey, c.apiSecret)

	query := url.Values{}
	for k, v := range signed {
		query.Set(k, v)
	}
	query.Set("signature", signature)

	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiktok API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
