package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/binti59/finance-app/internal/domain/category"
)

// CategoryRepository implements the category.Repository interface for
// PostgreSQL. Built-in default categories have a NULL user_id and are
// visible to every user.
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, type, parent_id, icon, color, created_at`

// SeedDefaults inserts the built-in category set. Idempotent: categories
// that already exist are left untouched. Called once at startup.
func (r *CategoryRepository) SeedDefaults(ctx context.Context) error {
	query := `
		INSERT INTO categories (user_id, name, type, icon, color)
		VALUES (NULL, $1, $2, $3, $4)
		ON CONFLICT (name) WHERE user_id IS NULL DO NOTHING
	`
	for _, d := range category.Defaults {
		if _, err := r.db.ExecContext(ctx, query, d.Name, d.Type, d.Icon, d.Color); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", d.Name, err)
		}
	}
	return nil
}

// Create creates a new user-defined category
func (r *CategoryRepository) Create(ctx context.Context, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, parent_id, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Name, params.Type, params.ParentID,
		nullString(params.Icon), nullString(params.Color),
	)

	cat, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return cat, nil
}

// GetByID retrieves a category by its ID. Returns (nil, nil) when no
// category exists.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	cat, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// ListByUserID returns the user's categories plus the built-in defaults,
// parents before children.
func (r *CategoryRepository) ListByUserID(ctx context.Context, userID int64) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY parent_id NULLS FIRST, type, name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update applies the non-nil fields. Returns (nil, nil) when no category
// exists.
func (r *CategoryRepository) Update(ctx context.Context, id int64, name, icon, color *string) (*category.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
		    icon = COALESCE($3, icon),
		    color = COALESCE($4, color)
		WHERE id = $1
		RETURNING ` + categoryColumns

	cat, err := scanCategory(r.db.QueryRowContext(ctx, query, id, name, icon, color))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return cat, nil
}

// Delete removes a category. Categories referenced by transactions or
// budgets are protected by foreign keys and surface as category.ErrInUse.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return category.ErrInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation"
}

func scanCategory(s scanner) (*category.Category, error) {
	var cat category.Category
	var userID, parentID sql.NullInt64
	var icon, color sql.NullString

	err := s.Scan(&cat.ID, &userID, &cat.Name, &cat.Type, &parentID, &icon, &color, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		cat.UserID = &userID.Int64
	}
	if parentID.Valid {
		cat.ParentID = &parentID.Int64
	}
	if icon.Valid {
		cat.Icon = icon.String
	}
	if color.Valid {
		cat.Color = color.String
	}

	return &cat, nil
}
