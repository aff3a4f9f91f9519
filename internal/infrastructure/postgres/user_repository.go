package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/binti59/finance-app/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, password_hash, created_at, updated_at
	`

	var u user.User
	err := r.db.QueryRowContext(
		ctx, query,
		params.Email, params.FirstName, params.LastName, params.PasswordHash,
	).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
