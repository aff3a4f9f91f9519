package category

import "context"

// Repository defines the interface for category data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// ListByUserID returns the user's categories plus the built-in
	// defaults, parents before children.
	ListByUserID(ctx context.Context, userID int64) ([]*Category, error)
	Update(ctx context.Context, id int64, name, icon, color *string) (*Category, error)
	Delete(ctx context.Context, id int64) error
}
