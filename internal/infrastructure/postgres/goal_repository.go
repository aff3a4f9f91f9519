package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binti59/finance-app/internal/domain/goal"
)

// GoalRepository implements the goal.Repository interface for PostgreSQL
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new PostgreSQL goal repository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, currency, deadline, category, priority, status, created_at, updated_at`

// Create creates a new goal
func (r *GoalRepository) Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, currency, deadline, category, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + goalColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Name, params.TargetAmount, params.CurrentAmount,
		params.Currency, params.Deadline, nullString(params.Category),
		params.Priority, params.Status,
	)

	g, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

// GetByID retrieves a goal by its ID. Returns (nil, nil) when no goal
// exists.
func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// ListByUserID returns the user's goals, optionally filtered by status,
// highest priority first.
func (r *GoalRepository) ListByUserID(ctx context.Context, userID int64, status string) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	args := []any{userID}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY priority ASC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// Update applies the non-nil fields of params. Returns (nil, nil) when no
// goal exists.
func (r *GoalRepository) Update(ctx context.Context, id int64, params goal.UpdateParams) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET name = COALESCE($2, name),
		    target_amount = COALESCE($3, target_amount),
		    current_amount = COALESCE($4, current_amount),
		    currency = COALESCE($5, currency),
		    deadline = COALESCE($6, deadline),
		    category = COALESCE($7, category),
		    priority = COALESCE($8, priority),
		    status = COALESCE($9, status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + goalColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.TargetAmount, params.CurrentAmount,
		params.Currency, params.Deadline, params.Category,
		params.Priority, params.Status,
	)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

// Delete removes a goal
func (r *GoalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return goal.ErrGoalNotFound
	}

	return nil
}

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal
	var deadline sql.NullTime
	var categoryName sql.NullString

	err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Currency, &deadline, &categoryName, &g.Priority, &g.Status,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		g.Deadline = &deadline.Time
	}
	if categoryName.Valid {
		g.Category = categoryName.String
	}

	return &g, nil
}
