package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flockpulse/flockpulse/internal/metrics"
	"github.com/flockpulse/flockpulse/internal/models"
	"github.com/flockpulse/flockpulse/internal/social"
)

// Under a stable count, history gains at most one entry per this window.
const historyAppendWindow = 24 * time.Hour

const (
	weeklyGrowthWindow  = 7 * 24 * time.Hour
	monthlyGrowthWindow = 30 * 24 * time.Hour
)

// HandlerFactory resolves the platform handler for an account. The default
// is NewPlatformHandler over the configured client set.
type HandlerFactory func(platform models.Platform) (PlatformHandler, error)

// UpdateResult is the outcome of one account reconciliation.
type UpdateResult struct {
	Account       *models.SocialAccount `json:"account"`
	WeeklyGrowth  int64                 `json:"weekly_growth"`
	MonthlyGrowth int64                 `json:"monthly_growth"`
}

// BatchResult summarizes a full reconciliation pass.
type BatchResult struct {
	Total           int             `json:"total"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	UpdatedAccounts []*UpdateResult `json:"updated_accounts"`
}

// Tracker maintains the follower time series for every tracked account.
type Tracker struct {
	repo      models.AccountRepository
	handlers  HandlerFactory
	collector *metrics.TrackerCollector
	logger    *slog.Logger
	now       func() time.Time
}

// NewTracker creates the tracking service. collector may be nil.
func NewTracker(repo models.AccountRepository, clients *social.Clients, collector *metrics.TrackerCollector, logger *slog.Logger) *Tracker {
	t := &Tracker{
		repo:      repo,
		collector: collector,
		logger:    logger,
		now:       time.Now,
	}
	var obs FetchObserver
	if collector != nil {
		obs = collector
	}
	t.handlers = func(platform models.Platform) (PlatformHandler, error) {
		return NewPlatformHandler(platform, clients, obs, logger)
	}
	return t
}

// UpdateAccountFollowers runs one reconciliation for the given account:
// fetch the current count through the platform handler, append a history
// entry when warranted, persist, and compute growth.
//
// A history entry is appended when the count changed, when the account has
// never been updated, or when more than 24 hours have passed since the last
// update. The count and last-updated timestamp are written unconditionally
// so "last checked" stays accurate even when history does not grow.
func (t *Tracker) UpdateAccountFollowers(ctx context.Context, accountID string) (*UpdateResult, error) {
	account, err := t.repo.GetByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s not found", accountID)
	}

	handler, err := t.handlers(account.Platform)
	if err != nil {
		return nil, err
	}

	count := handler.FollowerCount(ctx, account.Username, account.URL)
	now := t.now()

	if t.shouldAppendHistory(account, count, now) {
		account.FollowerHistory = append(account.FollowerHistory, models.FollowerSnapshot{
			Date:  now,
			Count: count,
		})
	}

	account.CurrentFollowers = count
	account.LastUpdated = &now

	if err := t.repo.UpdateTracking(account.ID, count, account.FollowerHistory, now); err != nil {
		return nil, fmt.Errorf("failed to persist account %s: %w", account.ID, err)
	}

	if t.collector != nil {
		t.collector.SetFollowers(account.Platform, account.Username, count)
	}

	result := &UpdateResult{
		Account:       account,
		WeeklyGrowth:  growthOver(account.FollowerHistory, now, weeklyGrowthWindow),
		MonthlyGrowth: growthOver(account.FollowerHistory, now, monthlyGrowthWindow),
	}

	t.logger.Debug("account reconciled",
		"account_id", account.ID,
		"platform", account.Platform,
		"username", account.Username,
		"followers", count,
		"weekly_growth", result.WeeklyGrowth,
		"monthly_growth", result.MonthlyGrowth)

	return result, nil
}

func (t *Tracker) shouldAppendHistory(account *models.SocialAccount, count int64, now time.Time) bool {
	if count != account.CurrentFollowers {
		return true
	}
	if account.LastUpdated == nil {
		return true
	}
	return now.Sub(*account.LastUpdated) > historyAppendWindow
}

// growthOver reports the difference between the latest history count and the
// count of the most recent entry dated at or before now minus the window.
// When no such earlier entry exists, growth is unavailable and reported as 0.
func growthOver(history []models.FollowerSnapshot, now time.Time, window time.Duration) int64 {
	if len(history) == 0 {
		return 0
	}

	latest := history[len(history)-1].Count
	cutoff := now.Add(-window)

	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Date.After(cutoff) {
			return latest - history[i].Count
		}
	}
	return 0
}

// UpdateAllAccountFollowers reconciles every tracked account sequentially.
// A single account's failure is logged and tallied; it never aborts the
// batch.
func (t *Tracker) UpdateAllAccountFollowers(ctx context.Context) (*BatchResult, error) {
	accounts, err := t.repo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	result := &BatchResult{Total: len(accounts)}

	for _, account := range accounts {
		updated, err := t.UpdateAccountFollowers(ctx, account.ID)
		if err != nil {
			t.logger.Error("account reconciliation failed",
				"account_id", account.ID,
				"platform", account.Platform,
				"username", account.Username,
				"error", err)
			result.Failed++
			if t.collector != nil {
				t.collector.ObserveAccountUpdate(false)
			}
			continue
		}

		result.Successful++
		result.UpdatedAccounts = append(result.UpdatedAccounts, updated)
		if t.collector != nil {
			t.collector.ObserveAccountUpdate(true)
		}
	}

	return result, nil
}

// RunScheduledUpdate is the entry point for the periodic scheduler: it runs
// a full reconciliation pass, logging the summary. Top-level failures (the
// account listing itself) propagate; per-account failures are already
// isolated by UpdateAllAccountFollowers.
func (t *Tracker) RunScheduledUpdate(ctx context.Context) error {
	t.logger.Info("starting scheduled follower update")

	result, err := t.UpdateAllAccountFollowers(ctx)
	if err != nil {
		t.logger.Error("scheduled follower update failed", "error", err)
		return err
	}

	t.logger.Info("scheduled follower update complete",
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed)
	return nil
}
