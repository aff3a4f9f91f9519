package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/liability"
)

// LiabilityRepository implements the liability.Repository interface for
// PostgreSQL
type LiabilityRepository struct {
	db *DB
}

// NewLiabilityRepository creates a new PostgreSQL liability repository
func NewLiabilityRepository(db *DB) *LiabilityRepository {
	return &LiabilityRepository{db: db}
}

const liabilityColumns = `id, user_id, name, type, amount, currency, interest_rate, start_date, end_date, payment_amount, payment_frequency, created_at, updated_at`

// Create creates a new liability
func (r *LiabilityRepository) Create(ctx context.Context, params liability.CreateParams) (*liability.Liability, error) {
	query := `
		INSERT INTO liabilities (user_id, name, type, amount, currency, interest_rate, start_date, end_date, payment_amount, payment_frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + liabilityColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Name, params.Type, params.Amount, params.Currency,
		params.InterestRate, params.StartDate, params.EndDate,
		params.PaymentAmount, params.PaymentFrequency,
	)

	l, err := scanLiability(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create liability: %w", err)
	}
	return l, nil
}

// GetByID retrieves a liability by its ID. Returns (nil, nil) when no
// liability exists.
func (r *LiabilityRepository) GetByID(ctx context.Context, id int64) (*liability.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE id = $1`

	l, err := scanLiability(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get liability: %w", err)
	}
	return l, nil
}

// ListByUserID retrieves all liabilities for a specific user, largest first
func (r *LiabilityRepository) ListByUserID(ctx context.Context, userID int64) ([]*liability.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE user_id = $1 ORDER BY amount DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*liability.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		liabilities = append(liabilities, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liabilities: %w", err)
	}

	return liabilities, nil
}

// Update applies the non-nil fields of params. Returns (nil, nil) when no
// liability exists.
func (r *LiabilityRepository) Update(ctx context.Context, id int64, params liability.UpdateParams) (*liability.Liability, error) {
	query := `
		UPDATE liabilities
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    amount = COALESCE($4, amount),
		    currency = COALESCE($5, currency),
		    interest_rate = COALESCE($6, interest_rate),
		    start_date = COALESCE($7, start_date),
		    end_date = COALESCE($8, end_date),
		    payment_amount = COALESCE($9, payment_amount),
		    payment_frequency = COALESCE($10, payment_frequency),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + liabilityColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.Type, params.Amount, params.Currency,
		params.InterestRate, params.StartDate, params.EndDate,
		params.PaymentAmount, params.PaymentFrequency,
	)

	l, err := scanLiability(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update liability: %w", err)
	}
	return l, nil
}

// Delete removes a liability
func (r *LiabilityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM liabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return liability.ErrLiabilityNotFound
	}

	return nil
}

func scanLiability(s scanner) (*liability.Liability, error) {
	var l liability.Liability
	var interestRate sql.NullFloat64
	var startDate, endDate sql.NullTime
	var paymentAmount decimal.NullDecimal
	var paymentFrequency sql.NullString

	err := s.Scan(
		&l.ID, &l.UserID, &l.Name, &l.Type, &l.Amount, &l.Currency,
		&interestRate, &startDate, &endDate, &paymentAmount, &paymentFrequency,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if interestRate.Valid {
		l.InterestRate = &interestRate.Float64
	}
	if startDate.Valid {
		l.StartDate = &startDate.Time
	}
	if endDate.Valid {
		l.EndDate = &endDate.Time
	}
	if paymentAmount.Valid {
		l.PaymentAmount = &paymentAmount.Decimal
	}
	if paymentFrequency.Valid {
		l.PaymentFrequency = &paymentFrequency.String
	}

	return &l, nil
}
