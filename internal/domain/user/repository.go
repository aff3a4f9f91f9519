package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// List returns all users; used by the KPI snapshot scheduler.
	List(ctx context.Context) ([]*User, error)
}
