package goal

import "context"

// Repository defines the interface for goal data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Goal, error)
	GetByID(ctx context.Context, id int64) (*Goal, error)
	// ListByUserID returns the user's goals, optionally filtered by
	// status when status is non-empty.
	ListByUserID(ctx context.Context, userID int64, status string) ([]*Goal, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Goal, error)
	Delete(ctx context.Context, id int64) error
}
