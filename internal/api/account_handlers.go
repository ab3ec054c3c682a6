package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

// AccountsHandler serves the tracked-account CRUD and refresh endpoints.
type AccountsHandler struct {
	repo    models.AccountRepository
	tracker *tracker.Tracker
	logger  *slog.Logger
}

func NewAccountsHandler(repo models.AccountRepository, t *tracker.Tracker, logger *slog.Logger) *AccountsHandler {
	return &AccountsHandler{
		repo:    repo,
		tracker: t,
		logger:  logger,
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// ListAccounts returns all tracked accounts
// GET /api/accounts?platform=youtube
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	var accounts []*models.SocialAccount
	var err error

	if raw := r.URL.Query().Get("platform"); raw != "" {
		platform, perr := models.ParsePlatform(raw)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		accounts, err = h.repo.ListByPlatform(platform)
	} else {
		accounts, err = h.repo.ListAll()
	}

	if err != nil {
		h.logger.Error("failed to list accounts", "error", err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// AddAccount registers a new account to track
// POST /api/accounts
// Body: {"platform": "youtube", "username": "gracechurch", "url": "https://youtube.com/@gracechurch"}
func (h *AccountsHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	var account models.SocialAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateAccount(&account); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account.ID = ""
	account.FollowerHistory = nil
	account.LastUpdated = nil

	if err := h.repo.Store(&account); err != nil {
		h.logger.Error("failed to store account", "error", err)
		http.Error(w, "Failed to store account", http.StatusInternalServerError)
		return
	}

	h.logger.Info("account added",
		"account_id", account.ID,
		"platform", account.Platform,
		"username", account.Username)

	writeJSON(w, http.StatusCreated, &account)
}

// HandleAccountByID dispatches /api/accounts/{id} and
// /api/accounts/{id}/refresh by method and suffix.
func (h *AccountsHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if rest == "" {
		http.Error(w, "Account ID required", http.StatusBadRequest)
		return
	}

	if strings.HasSuffix(rest, "/refresh") {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.refreshAccount(w, r, strings.TrimSuffix(rest, "/refresh"))
		return
	}

	id := rest
	switch r.Method {
	case http.MethodGet:
		h.getAccount(w, r, id)
	case http.MethodPut:
		h.updateAccount(w, r, id)
	case http.MethodDelete:
		h.deleteAccount(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountsHandler) getAccount(w http.ResponseWriter, r *http.Request, id string) {
	account, err := h.repo.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load account", "account_id", id, "error", err)
		http.Error(w, "Failed to load account", http.StatusInternalServerError)
		return
	}
	if account == nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountsHandler) updateAccount(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.repo.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load account", "account_id", id, "error", err)
		http.Error(w, "Failed to load account", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	var update models.SocialAccount
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Platform is part of the account's identity and cannot change; the
	// edit form owns username, url, display name and notes only.
	existing.Username = update.Username
	existing.URL = update.URL
	existing.DisplayName = update.DisplayName
	existing.Notes = update.Notes

	if err := validateAccount(existing); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Store(existing); err != nil {
		h.logger.Error("failed to update account", "account_id", id, "error", err)
		http.Error(w, "Failed to update account", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, existing)
}

func (h *AccountsHandler) deleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(id); err != nil {
		h.logger.Error("failed to delete account", "account_id", id, "error", err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// refreshAccount runs one reconciliation for a single account
// POST /api/accounts/{id}/refresh
func (h *AccountsHandler) refreshAccount(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.tracker.UpdateAccountFollowers(r.Context(), id)
	if err != nil {
		h.logger.Error("manual refresh failed", "account_id", id, "error", err)
		http.Error(w, "Failed to refresh account", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RefreshAll runs a reconciliation pass over every account
// POST /api/accounts/refresh
func (h *AccountsHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.tracker.UpdateAllAccountFollowers(r.Context())
	if err != nil {
		h.logger.Error("batch refresh failed", "error", err)
		http.Error(w, "Failed to refresh accounts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
