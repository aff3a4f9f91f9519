package asset

import "context"

// Repository defines the interface for asset data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Asset, error)
	GetByID(ctx context.Context, id int64) (*Asset, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Asset, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Asset, error)
	Delete(ctx context.Context, id int64) error
}
