package liability

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Liability, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*Liability, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*Liability, error)
	UpdateFunc       func(ctx context.Context, id int64, params UpdateParams) (*Liability, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Liability, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Liability, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64) ([]*Liability, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Liability, error) {
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

func rate(v float64) *float64 { return &v }

func payment(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func frequency(v string) *string { return &v }

func TestDebtSummary(t *testing.T) {
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*Liability, error) {
			return []*Liability{
				{
					ID: 1, Type: "mortgage", Amount: decimal.NewFromInt(100000),
					InterestRate: rate(4), PaymentAmount: payment(1000),
					PaymentFrequency: frequency(FrequencyMonthly),
				},
				{
					ID: 2, Type: "credit_card", Amount: decimal.NewFromInt(10000),
					InterestRate: rate(20), PaymentAmount: payment(500),
					PaymentFrequency: frequency(FrequencyMonthly),
				},
			}, nil
		},
	}
	svc := NewService(repo)

	summary, err := svc.DebtSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("DebtSummary() error: %v", err)
	}

	if !summary.TotalDebt.Equal(decimal.NewFromInt(110000)) {
		t.Errorf("total debt = %s, want 110000", summary.TotalDebt)
	}

	// (100000*4 + 10000*20) / 110000
	wantRate := 600000.0 / 110000.0
	if math.Abs(summary.WeightedInterestRate-wantRate) > 1e-9 {
		t.Errorf("weighted rate = %v, want %v", summary.WeightedInterestRate, wantRate)
	}
	if summary.MonthlyPaymentTotal != 1500 {
		t.Errorf("monthly payment total = %v, want 1500", summary.MonthlyPaymentTotal)
	}

	if len(summary.DebtByType) != 2 {
		t.Fatalf("expected 2 type summaries, got %d", len(summary.DebtByType))
	}
	// Largest debt first.
	if summary.DebtByType[0].Type != "mortgage" || summary.DebtByType[0].Count != 1 {
		t.Errorf("first type summary = %+v, want mortgage/1", summary.DebtByType[0])
	}

	if len(summary.PayoffProjections) == 0 {
		t.Fatal("expected payoff projections")
	}
	first := summary.PayoffProjections[0]
	if first.Month != 12 || first.Year != 1 {
		t.Errorf("first projection at month %d year %d, want 12/1", first.Month, first.Year)
	}
	if first.TotalPaid != 18000 {
		t.Errorf("total paid after a year = %v, want 18000", first.TotalPaid)
	}
	if first.RemainingDebt >= 110000 {
		t.Errorf("remaining debt after a year = %v, should shrink", first.RemainingDebt)
	}

	last := summary.PayoffProjections[len(summary.PayoffProjections)-1]
	if last.RemainingDebt != 0 {
		t.Errorf("final remaining debt = %v, want 0", last.RemainingDebt)
	}
}

func TestMonthlyPaymentTotal_Frequencies(t *testing.T) {
	tests := []struct {
		name      string
		frequency *string
		payment   float64
		want      float64
	}{
		{"Weekly", frequency(FrequencyWeekly), 100, 433},
		{"Bi-Weekly", frequency(FrequencyBiWeekly), 100, 217},
		{"Monthly", frequency(FrequencyMonthly), 100, 100},
		{"Quarterly", frequency(FrequencyQuarterly), 300, 100},
		{"Annually", frequency(FrequencyAnnually), 1200, 100},
		{"Unset Defaults To Monthly", nil, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthlyPaymentTotal([]*Liability{
				{PaymentAmount: payment(tt.payment), PaymentFrequency: tt.frequency},
			})
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("monthlyPaymentTotal = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("No Payment Amount", func(t *testing.T) {
		if got := monthlyPaymentTotal([]*Liability{{PaymentFrequency: frequency(FrequencyMonthly)}}); got != 0 {
			t.Errorf("monthlyPaymentTotal = %v, want 0", got)
		}
	})
}

func TestProjectPayoff(t *testing.T) {
	t.Run("No Payment Means No Projection", func(t *testing.T) {
		if got := projectPayoff(10000, 5, 0); len(got) != 0 {
			t.Errorf("expected empty projection, got %d points", len(got))
		}
	})

	t.Run("Interest Only Caps At Thirty Years", func(t *testing.T) {
		// Payment below monthly interest: the debt grows forever.
		points := projectPayoff(100000, 12, 500)
		if len(points) != 30 {
			t.Fatalf("expected 30 yearly snapshots, got %d", len(points))
		}
		last := points[len(points)-1]
		if last.Month != 360 {
			t.Errorf("last snapshot at month %d, want 360", last.Month)
		}
		if last.RemainingDebt <= 100000 {
			t.Errorf("remaining debt = %v, should have grown past the principal", last.RemainingDebt)
		}
	})

	t.Run("Final Payment Is Clamped", func(t *testing.T) {
		// 100 owed, no interest, 70 per month: paid off in month two.
		points := projectPayoff(100, 0, 70)
		if len(points) != 1 {
			t.Fatalf("expected single payoff point, got %d", len(points))
		}
		if points[0].Month != 2 || points[0].RemainingDebt != 0 {
			t.Errorf("payoff point = %+v, want month 2 with zero debt", points[0])
		}
	})
}

func TestCreateLiability_Validation(t *testing.T) {
	svc := NewService(&MockRepository{})

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{"Missing Name", CreateParams{Type: "loan"}, ErrNameRequired},
		{"Bad Type", CreateParams{Name: "X", Type: "iou"}, ErrInvalidType},
		{"Negative Amount", CreateParams{Name: "X", Type: "loan", Amount: decimal.NewFromInt(-1)}, ErrInvalidAmount},
		{"Bad Frequency", CreateParams{Name: "X", Type: "loan", PaymentFrequency: frequency("daily")}, ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateLiability(context.Background(), tt.params); err != tt.wantErr {
				t.Errorf("CreateLiability() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
