package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binti59/finance-app/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, name, type, institution, balance, initial_balance, currency, is_active, last_sync, created_at, updated_at`

// Create creates a new account. The running balance starts at the
// initial balance.
func (r *AccountRepository) Create(ctx context.Context, id string, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, name, type, institution, balance, initial_balance, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.UserID, params.Name, params.Type, nullString(params.Institution),
		params.InitialBalance, params.Currency,
	)

	acc, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return acc, nil
}

// GetByID retrieves an account by its ID. Returns (nil, nil) when no
// account exists.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

// ListByUserID retrieves all accounts for a specific user
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Update applies the non-nil fields of params
func (r *AccountRepository) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    institution = COALESCE($4, institution),
		    is_active = COALESCE($5, is_active),
		    last_sync = COALESCE($6, last_sync),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.Type, params.Institution, params.IsActive, params.LastSync,
	)

	acc, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return acc, nil
}

// Delete removes an account and, via ON DELETE CASCADE, its transactions.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account
	var institution sql.NullString
	var lastSync sql.NullTime

	err := s.Scan(
		&acc.ID, &acc.UserID, &acc.Name, &acc.Type, &institution,
		&acc.Balance, &acc.InitialBalance, &acc.Currency, &acc.IsActive,
		&lastSync, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if institution.Valid {
		acc.Institution = institution.String
	}
	if lastSync.Valid {
		acc.LastSync = &lastSync.Time
	}

	return &acc, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
