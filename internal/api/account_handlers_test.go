package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo is an in-memory AccountRepository for handler tests.
type fakeRepo struct {
	accounts map[string]*models.SocialAccount
	order    []string
	nextID   int
}

func newFakeRepo(accounts ...*models.SocialAccount) *fakeRepo {
	r := &fakeRepo{accounts: make(map[string]*models.SocialAccount)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r
}

func (r *fakeRepo) Store(account *models.SocialAccount) error {
	if account.ID == "" {
		r.nextID++
		account.ID = fmt.Sprintf("acct-%d", r.nextID)
	}
	if _, ok := r.accounts[account.ID]; !ok {
		r.order = append(r.order, account.ID)
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeRepo) GetByID(id string) (*models.SocialAccount, error) {
	return r.accounts[id], nil
}

func (r *fakeRepo) GetByPlatformAndUsername(platform models.Platform, username string) (*models.SocialAccount, error) {
	for _, a := range r.accounts {
		if a.Platform == platform && a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListAll() ([]*models.SocialAccount, error) {
	out := make([]*models.SocialAccount, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.accounts[id])
	}
	return out, nil
}

func (r *fakeRepo) ListByPlatform(platform models.Platform) ([]*models.SocialAccount, error) {
	all, _ := r.ListAll()
	var out []*models.SocialAccount
	for _, a := range all {
		if a.Platform == platform {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateTracking(id string, followers int64, history []models.FollowerSnapshot, lastUpdated time.Time) error {
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account %s not found", id)
	}
	a.CurrentFollowers = followers
	a.FollowerHistory = history
	a.LastUpdated = &lastUpdated
	return nil
}

func (r *fakeRepo) Delete(id string) error {
	delete(r.accounts, id)
	return nil
}

func newTestHandler(repo *fakeRepo) *AccountsHandler {
	clients := &social.Clients{Telegram: social.NewTelegramScraper(testLogger())}
	trk := tracker.NewTracker(repo, clients, nil, testLogger())
	return NewAccountsHandler(repo, trk, testLogger())
}

func TestListAccounts(t *testing.T) {
	repo := newFakeRepo(
		&models.SocialAccount{ID: "a1", Platform: models.PlatformTwitter, Username: "one"},
		&models.SocialAccount{ID: "a2", Platform: models.PlatformYouTube, Username: "two"},
	)
	handler := newTestHandler(repo)

	rr := httptest.NewRecorder()
	handler.ListAccounts(rr, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var payload struct {
		Accounts []*models.SocialAccount `json:"accounts"`
		Count    int                     `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Count != 2 || len(payload.Accounts) != 2 {
		t.Errorf("expected 2 accounts, got count=%d len=%d", payload.Count, len(payload.Accounts))
	}

	rr = httptest.NewRecorder()
	handler.ListAccounts(rr, httptest.NewRequest(http.MethodGet, "/api/accounts?platform=youtube", nil))
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode filtered response: %v", err)
	}
	if payload.Count != 1 || payload.Accounts[0].Username != "two" {
		t.Errorf("platform filter returned %+v", payload)
	}

	rr = httptest.NewRecorder()
	handler.ListAccounts(rr, httptest.NewRequest(http.MethodGet, "/api/accounts?platform=myspace", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown platform, got %d", rr.Code)
	}
}

func TestAddAccount(t *testing.T) {
	repo := newFakeRepo()
	handler := newTestHandler(repo)

	body := `{"platform":"twitter","username":"@nasa","url":"https://twitter.com/nasa","follower_history":[{"date":"2026-01-01T00:00:00Z","count":999}]}`
	rr := httptest.NewRecorder()
	handler.AddAccount(rr, httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}

	var account models.SocialAccount
	if err := json.NewDecoder(rr.Body).Decode(&account); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if account.ID == "" {
		t.Error("expected server-assigned ID")
	}
	if account.Username != "nasa" {
		t.Errorf("username not normalized: %q", account.Username)
	}
	// Clients cannot seed tracking state.
	if len(account.FollowerHistory) != 0 || account.LastUpdated != nil {
		t.Errorf("tracking state leaked from request: %+v", account)
	}
}

func TestAddAccountRejectsBadRequests(t *testing.T) {
	handler := newTestHandler(newFakeRepo())

	rr := httptest.NewRecorder()
	handler.AddAccount(rr, httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.AddAccount(rr, httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"platform":"twitter"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing username, got %d", rr.Code)
	}
}

func TestHandleAccountByID(t *testing.T) {
	account := &models.SocialAccount{ID: "a1", Platform: models.PlatformTwitter, Username: "nasa"}
	repo := newFakeRepo(account)
	handler := newTestHandler(repo)

	rr := httptest.NewRecorder()
	handler.HandleAccountByID(rr, httptest.NewRequest(http.MethodGet, "/api/accounts/a1", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET existing: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.HandleAccountByID(rr, httptest.NewRequest(http.MethodGet, "/api/accounts/ghost", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET missing: expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	update := `{"username":"nasa","display_name":"NASA","notes":"flagship"}`
	handler.HandleAccountByID(rr, httptest.NewRequest(http.MethodPut, "/api/accounts/a1", strings.NewReader(update)))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if account.DisplayName != "NASA" || account.Notes != "flagship" {
		t.Errorf("update not applied: %+v", account)
	}

	rr = httptest.NewRecorder()
	handler.HandleAccountByID(rr, httptest.NewRequest(http.MethodDelete, "/api/accounts/a1", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("DELETE: expected 200, got %d", rr.Code)
	}
	if got, _ := repo.GetByID("a1"); got != nil {
		t.Error("account still present after delete")
	}
}

func TestRefreshAccountWithoutCredentials(t *testing.T) {
	// No vendor credentials configured: the refresh still succeeds and
	// records a zero count rather than failing the request.
	account := &models.SocialAccount{ID: "a1", Platform: models.PlatformTwitter, Username: "nasa", CurrentFollowers: 10}
	repo := newFakeRepo(account)
	handler := newTestHandler(repo)

	rr := httptest.NewRecorder()
	handler.HandleAccountByID(rr, httptest.NewRequest(http.MethodPost, "/api/accounts/a1/refresh", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var result tracker.UpdateResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Account.CurrentFollowers != 0 {
		t.Errorf("expected zero count from unconfigured platform, got %d", result.Account.CurrentFollowers)
	}
	if account.LastUpdated == nil {
		t.Error("refresh must advance the last-updated timestamp")
	}
}
