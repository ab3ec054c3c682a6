package social

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultTelegramBaseURL = "https://t.me"

// Scraping an uncontrolled third-party page; keep the timeout tight.
const telegramRequestTimeout = 10 * time.Second

const telegramUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Matches "12 345 members" / "1,234 subscribers" in the channel preview
// page. Separators may be spaces, non-breaking spaces or commas.
var telegramMemberPattern = regexp.MustCompile(`(?i)([0-9][0-9\s,\x{00a0}]*)\s*(members|subscribers)`)

// TelegramScraper reads a public channel's member count off its t.me preview
// page. No credential is required, and every failure is folded into a zero
// count: the scrape is best-effort by contract.
type TelegramScraper struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTelegramScraper creates a scraper for public channel pages.
func NewTelegramScraper(logger *slog.Logger) *TelegramScraper {
	return &TelegramScraper{
		baseURL: defaultTelegramBaseURL,
		httpClient: &http.Client{
			Timeout: telegramRequestTimeout,
		},
		logger: logger,
	}
}

// FollowerCount fetches the channel page and extracts the member count.
// It never returns an error: failures are logged and reported as 0.
func (s *TelegramScraper) FollowerCount(ctx context.Context, identifier string) (int64, error) {
	username := strings.TrimPrefix(strings.TrimSpace(identifier), "@")
	if username == "" {
		return 0, nil
	}

	page, err := s.fetchChannelPage(ctx, username)
	if err != nil {
		s.logger.Warn("telegram scrape failed", "username", username, "error", err)
		return 0, nil
	}

	count := parseTelegramMemberCount(page)
	if count == 0 {
		s.logger.Warn("telegram member count not found on page", "username", username)
	}
	return count, nil
}

// parseTelegramMemberCount extracts the first "<n> members|subscribers"
// figure from page HTML, stripping thousands separators. Returns 0 when the
// pattern is absent.
func parseTelegramMemberCount(page string) int64 {
	match := telegramMemberPattern.FindStringSubmatch(page)
	if match == nil {
		return 0
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match[1])

	count, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

// ValidateUsername normalizes a t.me link or @name form and checks that the
// channel page exists. Never returns an error.
func (s *TelegramScraper) ValidateUsername(ctx context.Context, usernameOrURL string) bool {
	username, ok := ExtractTelegramUsername(usernameOrURL)
	if !ok || username == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+username, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", telegramUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("telegram existence check failed", "username", username, "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (s *TelegramScraper) fetchChannelPage(ctx context.Context, username string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+username, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", telegramUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("channel page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return string(body), nil
}
