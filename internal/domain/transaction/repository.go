package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceAdjustment is a signed delta to apply to an account balance in
// the same database transaction as the ledger mutation that caused it.
// The stored balance and the transaction sum must never drift apart.
type BalanceAdjustment struct {
	AccountID string
	Delta     decimal.Decimal
}

// Repository defines the interface for transaction data access. Every
// mutating method applies its balance adjustments atomically with the
// row change.
type Repository interface {
	Create(ctx context.Context, id string, params CreateParams, adjustments []BalanceAdjustment) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// List returns a filtered page of the user's transactions (newest
	// first) along with the total match count.
	List(ctx context.Context, userID int64, filter Filter) ([]*Transaction, int64, error)
	Update(ctx context.Context, id string, params UpdateParams, adjustments []BalanceAdjustment) (*Transaction, error)
	Delete(ctx context.Context, id string, adjustments []BalanceAdjustment) error

	// ListByDateRange returns the user's transactions of the given type
	// (all types when txType is empty) within [start, end], ascending by
	// date. Used by the budget, insights and KPI calculators.
	ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*Transaction, error)

	// ListByRecurringFlag returns the user's transactions with the given
	// is_recurring value, ascending by date.
	ListByRecurringFlag(ctx context.Context, userID int64, isRecurring bool) ([]*Transaction, error)
}
