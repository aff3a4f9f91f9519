package report

import "context"

// Repository defines the interface for saved report data access
type Repository interface {
	Create(ctx context.Context, id string, params CreateParams) (*Report, error)
	// GetByID returns (nil, nil) when no report exists.
	GetByID(ctx context.Context, id string) (*Report, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Report, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Report, error)
	Delete(ctx context.Context, id string) error
}
