package asset

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var assetTypes = map[string]bool{
	"stock":       true,
	"bond":        true,
	"real_estate": true,
	"crypto":      true,
	"cash":        true,
	"retirement":  true,
	"other":       true,
}

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrInvalidType   = errors.New("invalid asset type")
	ErrInvalidValue  = errors.New("asset value cannot be negative")
	ErrNameRequired  = errors.New("asset name is required")
	ErrForbidden     = errors.New("asset belongs to another user")
)

// Asset is a holding the user owns directly, outside of linked
// accounts. Acquisition fields are optional; performance metrics are
// only computed for assets that carry all three of acquisition price,
// acquisition date and current price.
type Asset struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Value            decimal.Decimal  `json:"value"`
	Currency         string           `json:"currency"`
	AcquisitionDate  *time.Time       `json:"acquisition_date,omitempty"`
	AcquisitionPrice *decimal.Decimal `json:"acquisition_price,omitempty"`
	CurrentPrice     *decimal.Decimal `json:"current_price,omitempty"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreateParams struct {
	UserID           int64            `json:"-"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Value            decimal.Decimal  `json:"value"`
	Currency         string           `json:"currency"`
	AcquisitionDate  *time.Time       `json:"acquisition_date"`
	AcquisitionPrice *decimal.Decimal `json:"acquisition_price"`
	CurrentPrice     *decimal.Decimal `json:"current_price"`
	Quantity         *decimal.Decimal `json:"quantity"`
	Notes            string           `json:"notes"`
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !assetTypes[p.Type] {
		return ErrInvalidType
	}
	if p.Value.IsNegative() {
		return ErrInvalidValue
	}
	return nil
}

type UpdateParams struct {
	Name             *string          `json:"name"`
	Type             *string          `json:"type"`
	Value            *decimal.Decimal `json:"value"`
	Currency         *string          `json:"currency"`
	AcquisitionDate  *time.Time       `json:"acquisition_date"`
	AcquisitionPrice *decimal.Decimal `json:"acquisition_price"`
	CurrentPrice     *decimal.Decimal `json:"current_price"`
	Quantity         *decimal.Decimal `json:"quantity"`
	Notes            *string          `json:"notes"`
}

// Performance describes the return on one asset since acquisition.
type Performance struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	AcquisitionValue   float64 `json:"acquisition_value"`
	CurrentValue       float64 `json:"current_value"`
	AbsoluteReturn     float64 `json:"absolute_return"`
	PercentageReturn   float64 `json:"percentage_return"`
	AnnualizedReturn   float64 `json:"annualized_return"`
	HoldingPeriodYears float64 `json:"holding_period_years"`
}

// AllocationSlice is a portfolio share attributed to one asset type.
type AllocationSlice struct {
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

type AllocationReport struct {
	TotalValue            decimal.Decimal    `json:"total_value"`
	Allocation            []AllocationSlice  `json:"allocation"`
	RecommendedAllocation map[string]float64 `json:"recommended_allocation"`
}
