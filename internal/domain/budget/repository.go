package budget

import (
	"context"
	"time"
)

// Repository defines the interface for budget data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Budget, error)
	// ListActive returns budgets whose lifetime overlaps [start, end]:
	// start_date <= end and end_date is null or >= start.
	ListActive(ctx context.Context, userID int64, start, end time.Time) ([]*Budget, error)
	// GetByCategoryPeriodStart reports an existing budget with the same
	// category, period and start date, or nil when there is none.
	GetByCategoryPeriodStart(ctx context.Context, userID, categoryID int64, period string, startDate time.Time) (*Budget, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Budget, error)
	Delete(ctx context.Context, id int64) error
}
