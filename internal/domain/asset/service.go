package asset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/metrics"
)

// RecommendedAllocation is the static target portfolio split reported
// alongside the actual allocation.
var RecommendedAllocation = map[string]float64{
	"stock":       60,
	"bond":        30,
	"cash":        10,
	"real_estate": 0,
	"crypto":      0,
	"other":       0,
}

const daysPerYear = 365

// Service handles asset business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateAsset(ctx context.Context, params CreateParams) (*Asset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetAsset(ctx context.Context, id, userID int64) (*Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssetNotFound
	}
	if a.UserID != userID {
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *Service) ListAssets(ctx context.Context, userID int64) ([]*Asset, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) UpdateAsset(ctx context.Context, id, userID int64, params UpdateParams) (*Asset, error) {
	if _, err := s.GetAsset(ctx, id, userID); err != nil {
		return nil, err
	}
	if params.Type != nil && !assetTypes[*params.Type] {
		return nil, ErrInvalidType
	}
	if params.Value != nil && params.Value.IsNegative() {
		return nil, ErrInvalidValue
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteAsset(ctx context.Context, id, userID int64) error {
	if _, err := s.GetAsset(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// PerformanceReport computes return metrics for every asset that has
// acquisition price, acquisition date and current price. Assets missing
// any of those are left out rather than reported with zeros. Results
// are sorted by percentage return, best first.
func (s *Service) PerformanceReport(ctx context.Context, userID int64) ([]Performance, error) {
	assets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	now := s.now()
	report := make([]Performance, 0, len(assets))
	for _, a := range assets {
		if a.AcquisitionPrice == nil || a.AcquisitionDate == nil || a.CurrentPrice == nil {
			continue
		}
		quantity := decimal.NewFromInt(1)
		if a.Quantity != nil {
			quantity = *a.Quantity
		}

		acquisitionValue := a.AcquisitionPrice.Mul(quantity).InexactFloat64()
		currentValue := a.CurrentPrice.Mul(quantity).InexactFloat64()
		holdingYears := now.Sub(*a.AcquisitionDate).Hours() / 24 / daysPerYear

		report = append(report, Performance{
			ID:                 a.ID,
			Name:               a.Name,
			Type:               a.Type,
			AcquisitionValue:   acquisitionValue,
			CurrentValue:       currentValue,
			AbsoluteReturn:     currentValue - acquisitionValue,
			PercentageReturn:   metrics.Rate(currentValue-acquisitionValue, acquisitionValue),
			AnnualizedReturn:   metrics.AnnualizedReturn(currentValue, acquisitionValue, holdingYears),
			HoldingPeriodYears: holdingYears,
		})
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].PercentageReturn > report[j].PercentageReturn
	})
	return report, nil
}

// Allocation groups the portfolio by asset type and reports each type's
// share of the total, largest first.
func (s *Service) Allocation(ctx context.Context, userID int64) (*AllocationReport, error) {
	assets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	byType := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, a := range assets {
		byType[a.Type] = byType[a.Type].Add(a.Value)
		total = total.Add(a.Value)
	}

	allocation := make([]AllocationSlice, 0, len(byType))
	for assetType, value := range byType {
		allocation = append(allocation, AllocationSlice{
			Type:       assetType,
			Value:      value,
			Percentage: metrics.Percentage(value, total),
		})
	}
	sort.Slice(allocation, func(i, j int) bool {
		return allocation[i].Value.GreaterThan(allocation[j].Value)
	})

	return &AllocationReport{
		TotalValue:            total,
		Allocation:            allocation,
		RecommendedAllocation: RecommendedAllocation,
	}, nil
}
