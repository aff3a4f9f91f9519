package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository interface
// for PostgreSQL. Every mutation runs in a database transaction together
// with its account balance adjustments, so the stored balances never
// drift from the ledger.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, account_id, category_id, amount, description, transaction_date, type, is_recurring, recurrence_pattern, created_at, updated_at`

// Create inserts a transaction and applies the balance adjustments
// atomically.
func (r *TransactionRepository) Create(ctx context.Context, id string, params transaction.CreateParams, adjustments []transaction.BalanceAdjustment) (*transaction.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions (id, user_id, account_id, category_id, amount, description, transaction_date, type, is_recurring, recurrence_pattern)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	row := tx.QueryRowContext(
		ctx, query,
		id, params.UserID, params.AccountID, params.CategoryID, params.Amount,
		params.Description, params.TransactionDate, params.Type,
		params.IsRecurring, params.RecurrencePattern,
	)

	txn, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := applyAdjustments(ctx, tx, adjustments); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return txn, nil
}

// GetByID retrieves a transaction by its ID. Returns (nil, nil) when no
// transaction exists.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// List returns a filtered page of the user's transactions, newest first,
// along with the total match count.
func (r *TransactionRepository) List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountID != "" {
		addCondition("account_id = $%d", filter.AccountID)
	}
	if filter.CategoryID != nil {
		addCondition("category_id = $%d", *filter.CategoryID)
	}
	if filter.Type != "" {
		addCondition("type = $%d", filter.Type)
	}
	if filter.StartDate != nil {
		addCondition("transaction_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("transaction_date <= $%d", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		addCondition("amount >= $%d", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		addCondition("amount <= $%d", *filter.MaxAmount)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where +
		` ORDER BY transaction_date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	transactions, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// Update applies the non-nil fields of params and the balance adjustments
// atomically.
func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams, adjustments []transaction.BalanceAdjustment) (*transaction.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE transactions
		SET account_id = COALESCE($2, account_id),
		    category_id = COALESCE($3, category_id),
		    amount = COALESCE($4, amount),
		    description = COALESCE($5, description),
		    transaction_date = COALESCE($6, transaction_date),
		    type = COALESCE($7, type),
		    is_recurring = COALESCE($8, is_recurring),
		    recurrence_pattern = COALESCE($9, recurrence_pattern),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + transactionColumns

	row := tx.QueryRowContext(
		ctx, query,
		id, params.AccountID, params.CategoryID, params.Amount, params.Description,
		params.TransactionDate, params.Type, params.IsRecurring, params.RecurrencePattern,
	)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := applyAdjustments(ctx, tx, adjustments); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return txn, nil
}

// Delete removes a transaction and applies the balance adjustments
// atomically.
func (r *TransactionRepository) Delete(ctx context.Context, id string, adjustments []transaction.BalanceAdjustment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}

	if err := applyAdjustments(ctx, tx, adjustments); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByDateRange returns the user's transactions of the given type (all
// types when txType is empty) within [start, end], ascending by date.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3`
	args := []any{userID, start, end}

	if txType != "" {
		args = append(args, txType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY transaction_date ASC"

	return r.queryTransactions(ctx, query, args...)
}

// ListByRecurringFlag returns the user's transactions with the given
// is_recurring value, ascending by date.
func (r *TransactionRepository) ListByRecurringFlag(ctx context.Context, userID int64, isRecurring bool) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_recurring = $2
		ORDER BY transaction_date ASC`

	return r.queryTransactions(ctx, query, userID, isRecurring)
}

// ListEntriesByAccountID returns the ledger entries of one account in
// ascending date order. Satisfies account.LedgerSource for the balance
// history replay.
func (r *TransactionRepository) ListEntriesByAccountID(ctx context.Context, accountID string) ([]account.LedgerEntry, error) {
	query := `
		SELECT id, transaction_date, type, amount
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []account.LedgerEntry
	for rows.Next() {
		var e account.LedgerEntry
		if err := rows.Scan(&e.TransactionID, &e.Date, &e.Type, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// applyAdjustments moves account balances inside the surrounding database
// transaction. Rolling back the ledger change rolls these back too.
func applyAdjustments(ctx context.Context, tx *sql.Tx, adjustments []transaction.BalanceAdjustment) error {
	for _, adj := range adjustments {
		if adj.Delta.IsZero() {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
			adj.Delta, adj.AccountID,
		)
		if err != nil {
			return fmt.Errorf("failed to adjust account balance: %w", err)
		}
	}
	return nil
}

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	var categoryID sql.NullInt64
	var recurrence sql.NullString

	err := s.Scan(
		&txn.ID, &txn.UserID, &txn.AccountID, &categoryID, &txn.Amount,
		&txn.Description, &txn.TransactionDate, &txn.Type,
		&txn.IsRecurring, &recurrence, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		txn.CategoryID = &categoryID.Int64
	}
	if recurrence.Valid {
		txn.RecurrencePattern = &recurrence.String
	}

	return &txn, nil
}
