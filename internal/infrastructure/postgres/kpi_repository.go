package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/kpi"
)

// KPIRepository implements the kpi.Repository interface for PostgreSQL.
// Snapshots are stored with a DATE column, so same-day upserts key on the
// calendar day regardless of the time of calculation.
type KPIRepository struct {
	db *DB
}

// NewKPIRepository creates a new PostgreSQL KPI repository
func NewKPIRepository(db *DB) *KPIRepository {
	return &KPIRepository{db: db}
}

const kpiColumns = `id, user_id, type, value, date, created_at`

// Insert appends a snapshot unconditionally; repeated calculations on the
// same day accumulate rows.
func (r *KPIRepository) Insert(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
	query := `
		INSERT INTO kpis (user_id, type, value, date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + kpiColumns

	k, err := scanKPI(r.db.QueryRowContext(ctx, query, userID, kpiType, value, date))
	if err != nil {
		return nil, fmt.Errorf("failed to insert kpi: %w", err)
	}
	return k, nil
}

// UpsertDaily writes at most one row per (user, type, calendar day),
// updating the value when today's row already exists.
func (r *KPIRepository) UpsertDaily(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
	query := `
		INSERT INTO kpis (user_id, type, value, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type, date)
		DO UPDATE SET value = EXCLUDED.value
		RETURNING ` + kpiColumns

	k, err := scanKPI(r.db.QueryRowContext(ctx, query, userID, kpiType, value, date))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert kpi: %w", err)
	}
	return k, nil
}

// Latest returns the most recent snapshot of a type, or (nil, nil).
func (r *KPIRepository) Latest(ctx context.Context, userID int64, kpiType string) (*kpi.KPI, error) {
	query := `
		SELECT ` + kpiColumns + `
		FROM kpis
		WHERE user_id = $1 AND type = $2
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	k, err := scanKPI(r.db.QueryRowContext(ctx, query, userID, kpiType))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest kpi: %w", err)
	}
	return k, nil
}

// ListRecent returns the most recent limit snapshots of a type in
// ascending date order.
func (r *KPIRepository) ListRecent(ctx context.Context, userID int64, kpiType string, limit int) ([]*kpi.KPI, error) {
	query := `
		SELECT ` + kpiColumns + ` FROM (
			SELECT ` + kpiColumns + `
			FROM kpis
			WHERE user_id = $1 AND type = $2
			ORDER BY date DESC, id DESC
			LIMIT $3
		) recent
		ORDER BY date ASC, id ASC
	`
	return r.queryKPIs(ctx, query, userID, kpiType, limit)
}

// List returns snapshots matching the filter, newest first.
func (r *KPIRepository) List(ctx context.Context, userID int64, filter kpi.Filter) ([]*kpi.KPI, error) {
	query := `SELECT ` + kpiColumns + ` FROM kpis WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"

	return r.queryKPIs(ctx, query, args...)
}

// LatestInRange returns the newest snapshot of a type dated within
// [start, end], or (nil, nil).
func (r *KPIRepository) LatestInRange(ctx context.Context, userID int64, kpiType string, start, end time.Time) (*kpi.KPI, error) {
	query := `
		SELECT ` + kpiColumns + `
		FROM kpis
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	k, err := scanKPI(r.db.QueryRowContext(ctx, query, userID, kpiType, start, end))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi in range: %w", err)
	}
	return k, nil
}

func (r *KPIRepository) queryKPIs(ctx context.Context, query string, args ...any) ([]*kpi.KPI, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*kpi.KPI
	for rows.Next() {
		k, err := scanKPI(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kpi: %w", err)
		}
		kpis = append(kpis, k)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kpis: %w", err)
	}

	return kpis, nil
}

func scanKPI(s scanner) (*kpi.KPI, error) {
	var k kpi.KPI
	err := s.Scan(&k.ID, &k.UserID, &k.Type, &k.Value, &k.Date, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
