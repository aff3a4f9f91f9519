package liability

import "context"

// Repository defines the interface for liability data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Liability, error)
	GetByID(ctx context.Context, id int64) (*Liability, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Liability, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Liability, error)
	Delete(ctx context.Context, id int64) error
}
