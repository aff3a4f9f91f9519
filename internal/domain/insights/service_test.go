package insights

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

type MockAccountRepo struct {
	account.Repository
	accounts []*account.Account
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	return m.accounts, nil
}

type MockAssetRepo struct {
	asset.Repository
	assets []*asset.Asset
}

func (m *MockAssetRepo) ListByUserID(ctx context.Context, userID int64) ([]*asset.Asset, error) {
	return m.assets, nil
}

type MockLiabilityRepo struct {
	liability.Repository
	liabilities []*liability.Liability
}

func (m *MockLiabilityRepo) ListByUserID(ctx context.Context, userID int64) ([]*liability.Liability, error) {
	return m.liabilities, nil
}

type MockTransactionRepo struct {
	transaction.Repository
	ListFunc            func(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, int64, error)
	ListByDateRangeFunc func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error)
}

func (m *MockTransactionRepo) List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	return nil, 0, nil
}

func (m *MockTransactionRepo) ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, userID, txType, start, end)
	}
	return nil, nil
}

type MockCategoryRepo struct {
	category.Repository
	categories []*category.Category
}

func (m *MockCategoryRepo) ListByUserID(ctx context.Context, userID int64) ([]*category.Category, error) {
	return m.categories, nil
}

type MockKPIRepo struct {
	kpi.Repository
	InsertFunc        func(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error)
	UpsertDailyFunc   func(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error)
	LatestInRangeFunc func(ctx context.Context, userID int64, kpiType string, start, end time.Time) (*kpi.KPI, error)
	ListRecentFunc    func(ctx context.Context, userID int64, kpiType string, limit int) ([]*kpi.KPI, error)
}

func (m *MockKPIRepo) Insert(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, userID, kpiType, value, date)
	}
	return &kpi.KPI{Type: kpiType, Value: value, Date: date}, nil
}

func (m *MockKPIRepo) UpsertDaily(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
	if m.UpsertDailyFunc != nil {
		return m.UpsertDailyFunc(ctx, userID, kpiType, value, date)
	}
	return &kpi.KPI{Type: kpiType, Value: value, Date: date}, nil
}

func (m *MockKPIRepo) LatestInRange(ctx context.Context, userID int64, kpiType string, start, end time.Time) (*kpi.KPI, error) {
	if m.LatestInRangeFunc != nil {
		return m.LatestInRangeFunc(ctx, userID, kpiType, start, end)
	}
	return nil, nil
}

func (m *MockKPIRepo) ListRecent(ctx context.Context, userID int64, kpiType string, limit int) ([]*kpi.KPI, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, userID, kpiType, limit)
	}
	return nil, nil
}

func tx(txType string, amount int64, date time.Time, categoryID *int64) *transaction.Transaction {
	return &transaction.Transaction{
		Type:            txType,
		Amount:          decimal.NewFromInt(amount),
		TransactionDate: date,
		CategoryID:      categoryID,
	}
}

func TestDashboard(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	txRepo := &MockTransactionRepo{
		ListByDateRangeFunc: func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
			if start.Equal(monthStart) {
				return []*transaction.Transaction{
					tx(transaction.TypeIncome, 5000, start, nil),
					tx(transaction.TypeExpense, 3500, start, nil),
				}, nil
			}
			return []*transaction.Transaction{
				tx(transaction.TypeIncome, 4000, start, nil),
				tx(transaction.TypeExpense, 3600, start, nil),
			}, nil
		},
	}

	recorded := map[string]decimal.Decimal{}
	kpiRepo := &MockKPIRepo{
		// The dashboard keeps one derived row per day; a plain append
		// here would pile up duplicate net_worth rows per page load.
		InsertFunc: func(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
			t.Errorf("Insert(%s) called, want daily upsert for derived metrics", kpiType)
			return &kpi.KPI{Type: kpiType, Value: value, Date: date}, nil
		},
		UpsertDailyFunc: func(ctx context.Context, userID int64, kpiType string, value decimal.Decimal, date time.Time) (*kpi.KPI, error) {
			recorded[kpiType] = value
			return &kpi.KPI{Type: kpiType, Value: value, Date: date}, nil
		},
		LatestInRangeFunc: func(ctx context.Context, userID int64, kpiType string, start, end time.Time) (*kpi.KPI, error) {
			return &kpi.KPI{Type: kpiType, Value: decimal.NewFromInt(5000)}, nil
		},
	}

	svc := NewService(
		&MockAccountRepo{accounts: []*account.Account{{ID: "a1", UserID: 1}}},
		&MockAssetRepo{assets: []*asset.Asset{{Value: decimal.NewFromInt(10000)}}},
		&MockLiabilityRepo{liabilities: []*liability.Liability{{Amount: decimal.NewFromInt(4000)}}},
		txRepo,
		&MockCategoryRepo{},
		kpiRepo,
	)
	svc.now = func() time.Time { return now }

	summary, err := svc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}

	if !summary.NetWorth.Value.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("net worth = %s, want 6000", summary.NetWorth.Value)
	}
	if summary.NetWorth.Change != 20 {
		t.Errorf("net worth change = %v, want 20 (from 5000 to 6000)", summary.NetWorth.Change)
	}
	if summary.MonthlyIncome.Change != 25 {
		t.Errorf("income change = %v, want 25", summary.MonthlyIncome.Change)
	}
	// Expenses fell from 3600 to 3500, which reads as positive.
	if summary.MonthlyExpenses.ChangeType != "positive" {
		t.Errorf("expenses change type = %q, want positive for a drop", summary.MonthlyExpenses.ChangeType)
	}
	if summary.SavingsRate.Value != 30 {
		t.Errorf("savings rate = %v, want 30", summary.SavingsRate.Value)
	}
	if math.Abs(summary.SavingsRate.Change-20) > 1e-9 {
		t.Errorf("savings rate change = %v, want 20 points", summary.SavingsRate.Change)
	}

	if !recorded[kpi.TypeNetWorth].Equal(decimal.NewFromInt(6000)) {
		t.Errorf("recorded net_worth = %s, want 6000", recorded[kpi.TypeNetWorth])
	}
	if got := recorded[kpi.TypeSavingsRate]; !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("recorded savings_rate = %s, want 30", got)
	}
}

func TestCashflow(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)

	txRepo := &MockTransactionRepo{
		ListByDateRangeFunc: func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				tx(transaction.TypeIncome, 5000, feb, nil),
				tx(transaction.TypeExpense, 2000, feb, nil),
				tx(transaction.TypeIncome, 4000, jan, nil),
				tx(transaction.TypeTransfer, 999, jan, nil),
			}, nil
		},
	}
	svc := NewService(&MockAccountRepo{}, &MockAssetRepo{}, &MockLiabilityRepo{}, txRepo, &MockCategoryRepo{}, &MockKPIRepo{})

	points, err := svc.Cashflow(context.Background(), 1, "monthly", nil, nil)
	if err != nil {
		t.Fatalf("Cashflow() error: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(points))
	}
	if points[0].Period != "2024-01" || points[1].Period != "2024-02" {
		t.Errorf("periods = %q, %q; want chronological 2024-01, 2024-02", points[0].Period, points[1].Period)
	}
	// Transfers count toward neither side.
	if !points[0].Income.Equal(decimal.NewFromInt(4000)) || !points[0].Net.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("january = %+v, want income 4000 net 4000", points[0])
	}
	if !points[1].Net.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("february net = %s, want 3000", points[1].Net)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	groceries := int64(10)
	vanished := int64(99)

	txRepo := &MockTransactionRepo{
		ListByDateRangeFunc: func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error) {
			if txType != transaction.TypeExpense {
				t.Errorf("transaction type filter = %q, want expense", txType)
			}
			return []*transaction.Transaction{
				tx(transaction.TypeExpense, 600, day, &groceries),
				tx(transaction.TypeExpense, 150, day, &groceries),
				tx(transaction.TypeExpense, 200, day, nil),
				tx(transaction.TypeExpense, 50, day, &vanished),
			}, nil
		},
	}
	svc := NewService(&MockAccountRepo{}, &MockAssetRepo{}, &MockLiabilityRepo{}, txRepo,
		&MockCategoryRepo{categories: []*category.Category{{ID: groceries, Name: "Groceries"}}},
		&MockKPIRepo{})

	breakdown, err := svc.ExpenseBreakdown(context.Background(), 1, "current_month", nil, nil)
	if err != nil {
		t.Fatalf("ExpenseBreakdown() error: %v", err)
	}

	if !breakdown.TotalExpenses.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total = %s, want 1000", breakdown.TotalExpenses)
	}
	if len(breakdown.Breakdown) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(breakdown.Breakdown))
	}

	first := breakdown.Breakdown[0]
	if first.CategoryName != "Groceries" || !first.Amount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("largest entry = %+v, want Groceries at 750", first)
	}
	if first.Percentage != 75 {
		t.Errorf("groceries percentage = %v, want 75", first.Percentage)
	}
	if first.Count != 2 {
		t.Errorf("groceries count = %d, want 2", first.Count)
	}

	byName := map[string]CategoryExpense{}
	for _, e := range breakdown.Breakdown {
		byName[e.CategoryName] = e
	}
	if e, ok := byName["Uncategorized"]; !ok || e.CategoryID != 0 {
		t.Errorf("uncategorized entry = %+v, want id 0", e)
	}
	if _, ok := byName["Unknown"]; !ok {
		t.Error("expected an Unknown entry for the dangling category id")
	}
}
