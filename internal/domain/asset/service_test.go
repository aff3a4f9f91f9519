package asset

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Asset, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*Asset, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*Asset, error)
	UpdateFunc       func(ctx context.Context, id int64, params UpdateParams) (*Asset, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Asset, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Asset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64) ([]*Asset, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Asset, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestPerformanceReport(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	twoYearsAgo := now.AddDate(0, 0, -730)

	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*Asset, error) {
			return []*Asset{
				{
					ID: 1, Name: "VTI", Type: "stock",
					AcquisitionDate:  &twoYearsAgo,
					AcquisitionPrice: dec(100),
					CurrentPrice:     dec(150),
					Quantity:         dec(10),
				},
				// Missing acquisition data, must be skipped.
				{ID: 2, Name: "House", Type: "real_estate", Value: decimal.NewFromInt(300000)},
				{
					ID: 3, Name: "BTC", Type: "crypto",
					AcquisitionDate:  &twoYearsAgo,
					AcquisitionPrice: dec(40000),
					CurrentPrice:     dec(30000),
					Quantity:         dec(1),
				},
			}, nil
		},
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	report, err := svc.PerformanceReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("PerformanceReport() error: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report))
	}

	// Sorted by percentage return descending: the winner first.
	vti := report[0]
	if vti.ID != 1 {
		t.Fatalf("expected asset 1 first, got %d", vti.ID)
	}
	if vti.AcquisitionValue != 1000 || vti.CurrentValue != 1500 {
		t.Errorf("values = %v/%v, want 1000/1500", vti.AcquisitionValue, vti.CurrentValue)
	}
	if vti.PercentageReturn != 50 {
		t.Errorf("percentage return = %v, want 50", vti.PercentageReturn)
	}
	// 50% over two years compounds to sqrt(1.5)-1 per year.
	wantAnnualized := (math.Sqrt(1.5) - 1) * 100
	if math.Abs(vti.AnnualizedReturn-wantAnnualized) > 0.01 {
		t.Errorf("annualized return = %v, want ~%v", vti.AnnualizedReturn, wantAnnualized)
	}

	btc := report[1]
	if btc.PercentageReturn != -25 {
		t.Errorf("losing asset percentage return = %v, want -25", btc.PercentageReturn)
	}
}

func TestAllocation(t *testing.T) {
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*Asset, error) {
			return []*Asset{
				{ID: 1, Type: "stock", Value: decimal.NewFromInt(6000)},
				{ID: 2, Type: "stock", Value: decimal.NewFromInt(2000)},
				{ID: 3, Type: "cash", Value: decimal.NewFromInt(2000)},
			}, nil
		},
	}
	svc := NewService(repo)

	report, err := svc.Allocation(context.Background(), 1)
	if err != nil {
		t.Fatalf("Allocation() error: %v", err)
	}

	if !report.TotalValue.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("total value = %s, want 10000", report.TotalValue)
	}
	if len(report.Allocation) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(report.Allocation))
	}
	if report.Allocation[0].Type != "stock" || report.Allocation[0].Percentage != 80 {
		t.Errorf("largest slice = %+v, want stock at 80%%", report.Allocation[0])
	}
	if report.RecommendedAllocation["stock"] != 60 {
		t.Errorf("recommended stock = %v, want 60", report.RecommendedAllocation["stock"])
	}
}

func TestAllocation_Empty(t *testing.T) {
	svc := NewService(&MockRepository{})
	report, err := svc.Allocation(context.Background(), 1)
	if err != nil {
		t.Fatalf("Allocation() error: %v", err)
	}
	if !report.TotalValue.IsZero() || len(report.Allocation) != 0 {
		t.Errorf("empty portfolio report = %+v, want zero total and no slices", report)
	}
}

func TestCreateAsset_Validation(t *testing.T) {
	svc := NewService(&MockRepository{})

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{"Missing Name", CreateParams{Type: "stock"}, ErrNameRequired},
		{"Bad Type", CreateParams{Name: "X", Type: "yacht"}, ErrInvalidType},
		{"Negative Value", CreateParams{Name: "X", Type: "stock", Value: decimal.NewFromInt(-1)}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateAsset(context.Background(), tt.params); err != tt.wantErr {
				t.Errorf("CreateAsset() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
