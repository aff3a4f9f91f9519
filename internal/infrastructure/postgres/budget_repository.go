package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/binti59/finance-app/internal/domain/budget"
)

// BudgetRepository implements the budget.Repository interface for PostgreSQL
type BudgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, category_id, amount, currency, period, start_date, end_date, created_at, updated_at`

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, params budget.CreateParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, currency, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + budgetColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.CategoryID, params.Amount, params.Currency,
		params.Period, params.StartDate, params.EndDate,
	)

	b, err := scanBudget(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

// GetByID retrieves a budget by its ID. Returns (nil, nil) when no budget
// exists.
func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// ListByUserID retrieves all budgets for a specific user
func (r *BudgetRepository) ListByUserID(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY start_date DESC, id DESC`
	return r.queryBudgets(ctx, query, userID)
}

// ListActive returns budgets whose lifetime overlaps [start, end].
func (r *BudgetRepository) ListActive(ctx context.Context, userID int64, start, end time.Time) ([]*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		  AND start_date <= $3
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date DESC, id DESC
	`
	return r.queryBudgets(ctx, query, userID, start, end)
}

// GetByCategoryPeriodStart reports an existing budget with the same
// category, period and start date, or (nil, nil) when there is none.
func (r *BudgetRepository) GetByCategoryPeriodStart(ctx context.Context, userID, categoryID int64, period string, startDate time.Time) (*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND category_id = $2 AND period = $3 AND start_date = $4
		LIMIT 1
	`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, userID, categoryID, period, startDate))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return b, nil
}

// Update applies the non-nil fields of params. Returns (nil, nil) when no
// budget exists.
func (r *BudgetRepository) Update(ctx context.Context, id int64, params budget.UpdateParams) (*budget.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = COALESCE($2, category_id),
		    amount = COALESCE($3, amount),
		    currency = COALESCE($4, currency),
		    period = COALESCE($5, period),
		    start_date = COALESCE($6, start_date),
		    end_date = COALESCE($7, end_date),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + budgetColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.CategoryID, params.Amount, params.Currency,
		params.Period, params.StartDate, params.EndDate,
	)

	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return budget.ErrBudgetNotFound
	}

	return nil
}

func (r *BudgetRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]*budget.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget
	var endDate sql.NullTime

	err := s.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Currency,
		&b.Period, &b.StartDate, &endDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		b.EndDate = &endDate.Time
	}

	return &b, nil
}
