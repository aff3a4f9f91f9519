package budget

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc                   func(ctx context.Context, params CreateParams) (*Budget, error)
	GetByIDFunc                  func(ctx context.Context, id int64) (*Budget, error)
	ListByUserIDFunc             func(ctx context.Context, userID int64) ([]*Budget, error)
	ListActiveFunc               func(ctx context.Context, userID int64, start, end time.Time) ([]*Budget, error)
	GetByCategoryPeriodStartFunc func(ctx context.Context, userID, categoryID int64, period string, startDate time.Time) (*Budget, error)
	UpdateFunc                   func(ctx context.Context, id int64, params UpdateParams) (*Budget, error)
	DeleteFunc                   func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Budget, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64) ([]*Budget, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) ListActive(ctx context.Context, userID int64, start, end time.Time) ([]*Budget, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, userID, start, end)
	}
	return nil, nil
}

func (m *MockRepository) GetByCategoryPeriodStart(ctx context.Context, userID, categoryID int64, period string, startDate time.Time) (*Budget, error) {
	if m.GetByCategoryPeriodStartFunc != nil {
		return m.GetByCategoryPeriodStartFunc(ctx, userID, categoryID, period, startDate)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Budget, error) {
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

type MockCategoryRepo struct {
	categories []*category.Category
}

func (m *MockCategoryRepo) Create(ctx context.Context, params category.CreateParams) (*category.Category, error) {
	return nil, nil
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepo) ListByUserID(ctx context.Context, userID int64) ([]*category.Category, error) {
	return m.categories, nil
}

func (m *MockCategoryRepo) Update(ctx context.Context, id int64, name, icon, color *string) (*category.Category, error) {
	return nil, nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id int64) error { return nil }

type MockTransactionRepo struct {
	transaction.Repository
	ListByDateRangeFunc func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error)
}

func (m *MockTransactionRepo) ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, userID, txType, start, end)
	}
	return nil, nil
}

func catID(id int64) *int64 { return &id }

func TestPerformance_ProRatesYearlyBudget(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		ListActiveFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]*Budget, error) {
			return []*Budget{
				{ID: 1, UserID: 1, CategoryID: 10, Amount: decimal.NewFromInt(1200), Period: PeriodYearly},
				{ID: 2, UserID: 1, CategoryID: 11, Amount: decimal.NewFromInt(500), Period: PeriodMonthly},
			}, nil
		},
	}
	txRepo := &MockTransactionRepo{
		ListByDateRangeFunc: func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{CategoryID: catID(10), Amount: decimal.NewFromInt(120), Type: transaction.TypeExpense},
				{CategoryID: catID(11), Amount: decimal.NewFromInt(100), Type: transaction.TypeExpense},
			}, nil
		},
	}
	cats := &MockCategoryRepo{categories: []*category.Category{
		{ID: 10, Name: "Insurance"},
		{ID: 11, Name: "Groceries"},
	}}

	svc := NewService(repo, cats, txRepo)
	report, err := svc.Performance(ctx, 1, "current", nil, nil)
	if err != nil {
		t.Fatalf("Performance() error: %v", err)
	}

	if len(report.Categories) != 2 {
		t.Fatalf("expected 2 category rows, got %d", len(report.Categories))
	}

	// Sorted by percentage descending: the over-budget yearly one first.
	first := report.Categories[0]
	if first.BudgetID != 1 {
		t.Fatalf("expected budget 1 first, got %d", first.BudgetID)
	}
	if !first.Budgeted.Equal(decimal.NewFromInt(100)) {
		t.Errorf("budgeted = %s, want 100 (1200 yearly pro-rated)", first.Budgeted)
	}
	if first.Percentage != 120 {
		t.Errorf("percentage = %v, want 120", first.Percentage)
	}
	if first.Status != "over_budget" {
		t.Errorf("status = %q, want over_budget", first.Status)
	}
	if !first.Remaining.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("remaining = %s, want -20", first.Remaining)
	}

	second := report.Categories[1]
	if second.Status != "good" || second.Percentage != 20 {
		t.Errorf("monthly budget: percentage = %v status = %q, want 20/good", second.Percentage, second.Status)
	}

	if !report.Overall.Budgeted.Equal(decimal.NewFromInt(600)) {
		t.Errorf("overall budgeted = %s, want 600", report.Overall.Budgeted)
	}
	if !report.Overall.Spent.Equal(decimal.NewFromInt(220)) {
		t.Errorf("overall spent = %s, want 220", report.Overall.Spent)
	}
}

func TestPerformance_NoBudgets(t *testing.T) {
	svc := NewService(&MockRepository{}, &MockCategoryRepo{}, &MockTransactionRepo{})
	report, err := svc.Performance(context.Background(), 1, "current", nil, nil)
	if err != nil {
		t.Fatalf("Performance() error: %v", err)
	}
	if report.Overall.Percentage != 0 || report.Overall.Status != "good" {
		t.Errorf("empty report overall = %+v, want 0%%/good", report.Overall)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{0, "good"},
		{49.9, "good"},
		{50, "warning"},
		{84.9, "warning"},
		{85, "alert"},
		{99.9, "alert"},
		{100, "over_budget"},
		{250, "over_budget"},
	}
	for _, tt := range tests {
		if got := statusFor(tt.percentage); got != tt.want {
			t.Errorf("statusFor(%v) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Current Month",
			period:    "current",
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Previous Month",
			period:    "previous",
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Year To Date",
			period:    "year_to_date",
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Unknown Falls Back To Current",
			period:    "whatever",
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := resolveWindow(tt.period, nil, nil, now)
			if !win.StartDate.Equal(tt.wantStart) || !win.EndDate.Equal(tt.wantEnd) {
				t.Errorf("resolveWindow(%q) = [%s, %s], want [%s, %s]",
					tt.period, win.StartDate, win.EndDate, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*Budget, error) {
			// Category 12 already has a budget, so it must be skipped.
			return []*Budget{{ID: 5, UserID: 1, CategoryID: 12, Amount: decimal.NewFromInt(200)}}, nil
		},
	}
	txRepo := &MockTransactionRepo{
		ListByDateRangeFunc: func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{CategoryID: catID(10), Amount: decimal.NewFromInt(150)},
				{CategoryID: catID(10), Amount: decimal.NewFromInt(135)},
				{CategoryID: catID(11), Amount: decimal.NewFromInt(600)},
				{CategoryID: catID(12), Amount: decimal.NewFromInt(900)},
				{CategoryID: nil, Amount: decimal.NewFromInt(50)},
			}, nil
		},
	}
	cats := &MockCategoryRepo{categories: []*category.Category{
		{ID: 10, Name: "Dining"},
		{ID: 11, Name: "Rent"},
	}}

	svc := NewService(repo, cats, txRepo)
	recs, err := svc.Recommendations(ctx, 1)
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	// Sorted by average monthly expense descending: Rent (200) > Dining (95).
	if recs[0].CategoryName != "Rent" {
		t.Errorf("first recommendation = %q, want Rent", recs[0].CategoryName)
	}
	if !recs[0].RecommendedBudget.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Rent recommended = %s, want 200", recs[0].RecommendedBudget)
	}

	// 285 over 3 months = 95 average, rounded up to the nearest 10.
	if !recs[1].AverageMonthlyExpense.Equal(decimal.NewFromInt(95)) {
		t.Errorf("Dining average = %s, want 95", recs[1].AverageMonthlyExpense)
	}
	if !recs[1].RecommendedBudget.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Dining recommended = %s, want 100", recs[1].RecommendedBudget)
	}
	if recs[1].TransactionCount != 2 {
		t.Errorf("Dining transaction count = %d, want 2", recs[1].TransactionCount)
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	ctx := context.Background()
	cats := &MockCategoryRepo{categories: []*category.Category{{ID: 10, Name: "Dining"}}}

	t.Run("Unknown Category", func(t *testing.T) {
		svc := NewService(&MockRepository{}, cats, &MockTransactionRepo{})
		_, err := svc.CreateBudget(ctx, CreateParams{
			UserID: 1, CategoryID: 99, Amount: decimal.NewFromInt(100),
		})
		if err != ErrInvalidCategory {
			t.Errorf("error = %v, want ErrInvalidCategory", err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := &MockRepository{
			GetByCategoryPeriodStartFunc: func(ctx context.Context, userID, categoryID int64, period string, startDate time.Time) (*Budget, error) {
				return &Budget{ID: 1}, nil
			},
		}
		svc := NewService(repo, cats, &MockTransactionRepo{})
		_, err := svc.CreateBudget(ctx, CreateParams{
			UserID: 1, CategoryID: 10, Amount: decimal.NewFromInt(100),
		})
		if err != ErrDuplicateBudget {
			t.Errorf("error = %v, want ErrDuplicateBudget", err)
		}
	})

	t.Run("Defaults Applied", func(t *testing.T) {
		var got CreateParams
		repo := &MockRepository{
			CreateFunc: func(ctx context.Context, params CreateParams) (*Budget, error) {
				got = params
				return &Budget{ID: 1}, nil
			},
		}
		svc := NewService(repo, cats, &MockTransactionRepo{})
		if _, err := svc.CreateBudget(ctx, CreateParams{
			UserID: 1, CategoryID: 10, Amount: decimal.NewFromInt(100),
		}); err != nil {
			t.Fatalf("CreateBudget() error: %v", err)
		}
		if got.Currency != "USD" || got.Period != PeriodMonthly {
			t.Errorf("defaults = %q/%q, want USD/monthly", got.Currency, got.Period)
		}
	})
}
