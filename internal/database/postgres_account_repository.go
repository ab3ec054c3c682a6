package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flockpulse/flockpulse/internal/models"
)

// PostgresAccountRepository persists social accounts, with the follower
// history stored as a JSONB column.
type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, platform, username, url, display_name, notes,
	current_followers, follower_history, last_updated, created_at, updated_at`

func (r *PostgresAccountRepository) Store(account *models.SocialAccount) error {
	historyJSON, err := json.Marshal(account.FollowerHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal follower history: %w", err)
	}

	if account.ID == "" {
		account.ID = uuid.NewString()

		// New account; (platform, username) is the identity pair, so a
		// re-submitted account updates in place instead of duplicating.
		query := `
			INSERT INTO social_accounts
			(id, platform, username, url, display_name, notes,
			 current_followers, follower_history, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (platform, username)
			DO UPDATE SET
				url = EXCLUDED.url,
				display_name = EXCLUDED.display_name,
				notes = EXCLUDED.notes,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`

		return r.db.QueryRow(query,
			account.ID,
			account.Platform,
			account.Username,
			account.URL,
			account.DisplayName,
			account.Notes,
			account.CurrentFollowers,
			historyJSON,
			account.LastUpdated,
		).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	}

	query := `
		UPDATE social_accounts SET
			username = $2,
			url = $3,
			display_name = $4,
			notes = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(query,
		account.ID,
		account.Username,
		account.URL,
		account.DisplayName,
		account.Notes,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *PostgresAccountRepository) GetByID(id string) (*models.SocialAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM social_accounts WHERE id = $1`, accountColumns)
	return r.scanAccount(r.db.QueryRow(query, id))
}

func (r *PostgresAccountRepository) GetByPlatformAndUsername(platform models.Platform, username string) (*models.SocialAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM social_accounts WHERE platform = $1 AND username = $2`, accountColumns)
	return r.scanAccount(r.db.QueryRow(query, platform, username))
}

func (r *PostgresAccountRepository) ListAll() ([]*models.SocialAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM social_accounts ORDER BY platform, username`, accountColumns)
	return r.queryAccounts(query)
}

func (r *PostgresAccountRepository) ListByPlatform(platform models.Platform) ([]*models.SocialAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM social_accounts WHERE platform = $1 ORDER BY username`, accountColumns)
	return r.queryAccounts(query, platform)
}

func (r *PostgresAccountRepository) UpdateTracking(id string, followers int64, history []models.FollowerSnapshot, lastUpdated time.Time) error {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal follower history: %w", err)
	}

	result, err := r.db.Exec(`
		UPDATE social_accounts SET
			current_followers = $2,
			follower_history = $3,
			last_updated = $4,
			updated_at = NOW()
		WHERE id = $1
	`, id, followers, historyJSON, lastUpdated)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

func (r *PostgresAccountRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM social_accounts WHERE id = $1`, id)
	return err
}

func (r *PostgresAccountRepository) queryAccounts(query string, args ...interface{}) ([]*models.SocialAccount, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresAccountRepository) scanAccount(row rowScanner) (*models.SocialAccount, error) {
	account, err := scanAccountRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return account, err
}

func scanAccountRow(row rowScanner) (*models.SocialAccount, error) {
	var account models.SocialAccount
	var historyJSON []byte
	var url, displayName, notes sql.NullString
	var lastUpdated sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Platform,
		&account.Username,
		&url,
		&displayName,
		&notes,
		&account.CurrentFollowers,
		&historyJSON,
		&lastUpdated,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.URL = url.String
	account.DisplayName = displayName.String
	account.Notes = notes.String
	if lastUpdated.Valid {
		t := lastUpdated.Time
		account.LastUpdated = &t
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &account.FollowerHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal follower history: %w", err)
		}
	}

	return &account, nil
}
