package api

import (
	"net/http"

	"log/slog"

	"github.com/flockpulse/flockpulse/internal/auth"
	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, accountRepo models.AccountRepository, trk *tracker.Tracker, clients *social.Clients, authConfig auth.Config, logger *slog.Logger) {
	accountsHandler := NewAccountsHandler(accountRepo, trk, logger)
	platformsHandler := NewPlatformsHandler(clients, logger)
	authHandler := NewAuthHandler(authConfig, logger)

	authMiddleware := auth.AuthMiddleware(authConfig)
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				setCORSHeaders(w)
				w.WriteHeader(http.StatusOK)
				return
			}
			authMiddleware(h).ServeHTTP(w, r)
		}
	}

	// Authentication routes (public)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/validate", protected(authHandler.ValidateToken))

	// Account routes: reads are public, mutations require auth
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountsHandler.ListAccounts(w, r)
		case http.MethodPost:
			protected(accountsHandler.AddAccount)(w, r)
		case http.MethodOptions:
			setCORSHeaders(w)
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/accounts/refresh", protected(accountsHandler.RefreshAll))
	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodOptions {
			accountsHandler.HandleAccountByID(w, r)
			return
		}
		protected(accountsHandler.HandleAccountByID)(w, r)
	})

	// Platform integration health (requires auth: it spends API quota)
	mux.HandleFunc("/api/platforms/status", protected(platformsHandler.Status))
}
