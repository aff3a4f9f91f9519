package account

import "context"

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the
// infrastructure layer
type Repository interface {
	// Create creates a new account with the given ID
	Create(ctx context.Context, id string, params CreateParams) (*Account, error)

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// ListByUserID retrieves all accounts for a specific user
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)

	// Update applies the non-nil fields of params
	Update(ctx context.Context, id string, params UpdateParams) (*Account, error)

	// Delete removes an account and its transactions
	Delete(ctx context.Context, id string) error
}
