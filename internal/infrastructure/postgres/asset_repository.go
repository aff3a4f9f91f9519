package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/asset"
)

// AssetRepository implements the asset.Repository interface for PostgreSQL
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new PostgreSQL asset repository
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, user_id, name, type, value, currency, acquisition_date, acquisition_price, current_price, quantity, notes, created_at, updated_at`

// Create creates a new asset
func (r *AssetRepository) Create(ctx context.Context, params asset.CreateParams) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (user_id, name, type, value, currency, acquisition_date, acquisition_price, current_price, quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + assetColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Name, params.Type, params.Value, params.Currency,
		params.AcquisitionDate, params.AcquisitionPrice, params.CurrentPrice,
		params.Quantity, nullString(params.Notes),
	)

	a, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return a, nil
}

// GetByID retrieves an asset by its ID. Returns (nil, nil) when no asset
// exists.
func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return a, nil
}

// ListByUserID retrieves all assets for a specific user, largest first
func (r *AssetRepository) ListByUserID(ctx context.Context, userID int64) ([]*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 ORDER BY value DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// Update applies the non-nil fields of params. Returns (nil, nil) when no
// asset exists.
func (r *AssetRepository) Update(ctx context.Context, id int64, params asset.UpdateParams) (*asset.Asset, error) {
	query := `
		UPDATE assets
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    value = COALESCE($4, value),
		    currency = COALESCE($5, currency),
		    acquisition_date = COALESCE($6, acquisition_date),
		    acquisition_price = COALESCE($7, acquisition_price),
		    current_price = COALESCE($8, current_price),
		    quantity = COALESCE($9, quantity),
		    notes = COALESCE($10, notes),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + assetColumns

	row := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.Type, params.Value, params.Currency,
		params.AcquisitionDate, params.AcquisitionPrice, params.CurrentPrice,
		params.Quantity, params.Notes,
	)

	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	return a, nil
}

// Delete removes an asset
func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return asset.ErrAssetNotFound
	}

	return nil
}

func scanAsset(s scanner) (*asset.Asset, error) {
	var a asset.Asset
	var acquisitionDate sql.NullTime
	var acquisitionPrice, currentPrice, quantity decimal.NullDecimal
	var notes sql.NullString

	err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Value, &a.Currency,
		&acquisitionDate, &acquisitionPrice, &currentPrice, &quantity,
		&notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if acquisitionDate.Valid {
		a.AcquisitionDate = &acquisitionDate.Time
	}
	if acquisitionPrice.Valid {
		a.AcquisitionPrice = &acquisitionPrice.Decimal
	}
	if currentPrice.Valid {
		a.CurrentPrice = &currentPrice.Decimal
	}
	if quantity.Valid {
		a.Quantity = &quantity.Decimal
	}
	if notes.Valid {
		a.Notes = notes.String
	}

	return &a, nil
}
