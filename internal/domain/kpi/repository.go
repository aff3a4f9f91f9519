package kpi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for KPI data access
type Repository interface {
	// Insert appends a snapshot unconditionally; repeated calculations
	// on the same day accumulate rows.
	Insert(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*KPI, error)
	// UpsertDaily writes at most one row per (user, type, calendar
	// day), updating the value when today's row already exists.
	UpsertDaily(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*KPI, error)
	// Latest returns the most recent snapshot of a type, or nil.
	Latest(ctx context.Context, userID int64, kpiType string) (*KPI, error)
	// ListRecent returns the most recent limit snapshots of a type in
	// ascending date order.
	ListRecent(ctx context.Context, userID int64, kpiType string, limit int) ([]*KPI, error)
	// List returns snapshots matching the filter, newest first.
	List(ctx context.Context, userID int64, filter Filter) ([]*KPI, error)
	// LatestInRange returns the newest snapshot of a type dated within
	// [start, end], or nil.
	LatestInRange(ctx context.Context, userID int64, kpiType string, start, end time.Time) (*KPI, error)
}

// dailyUpsertTypes lists the metrics that keep at most one row per
// calendar day. Everything else appends a row on every calculation.
var dailyUpsertTypes = map[string]bool{
	TypeNetWorth:    true,
	TypeSavingsRate: true,
	TypeFIIndex:     true,
}

// Record writes a snapshot through the per-type policy: derived series
// (net_worth, savings_rate, fi_index) upsert on (user, type, day) so
// concurrent recalculations settle on a single row, while input series
// such as freedom_number and health_score append.
func Record(ctx context.Context, repo Repository, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*KPI, error) {
	if dailyUpsertTypes[kpiType] {
		return repo.UpsertDaily(ctx, userID, kpiType, value, date)
	}
	return repo.Insert(ctx, userID, kpiType, value, date)
}
