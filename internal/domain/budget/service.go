package budget

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/domain/metrics"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

var twelve = decimal.NewFromInt(12)

// Service handles budget business logic
type Service struct {
	repo         Repository
	categories   category.Repository
	transactions transaction.Repository
	now          func() time.Time
}

func NewService(repo Repository, categories category.Repository, transactions transaction.Repository) *Service {
	return &Service{
		repo:         repo,
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
	}
}

func (s *Service) CreateBudget(ctx context.Context, params CreateParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if params.Period == "" {
		params.Period = PeriodMonthly
	}

	cat, err := s.categories.GetByID(ctx, params.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("validating category: %w", err)
	}
	if cat == nil {
		return nil, ErrInvalidCategory
	}

	existing, err := s.repo.GetByCategoryPeriodStart(ctx, params.UserID, params.CategoryID, params.Period, params.StartDate)
	if err != nil {
		return nil, fmt.Errorf("checking for duplicate budget: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateBudget
	}

	return s.repo.Create(ctx, params)
}

func (s *Service) GetBudget(ctx context.Context, id, userID int64) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBudgetNotFound
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]*Budget, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) UpdateBudget(ctx context.Context, id, userID int64, params UpdateParams) (*Budget, error) {
	if _, err := s.GetBudget(ctx, id, userID); err != nil {
		return nil, err
	}
	if params.Amount != nil && !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if params.Period != nil && !periods[*params.Period] {
		return nil, ErrInvalidPeriod
	}
	if params.CategoryID != nil {
		cat, err := s.categories.GetByID(ctx, *params.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("validating category: %w", err)
		}
		if cat == nil {
			return nil, ErrInvalidCategory
		}
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteBudget(ctx context.Context, id, userID int64) error {
	if _, err := s.GetBudget(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Performance evaluates every budget active during the requested window
// against the expense transactions recorded in it. Yearly budgets are
// pro-rated to a twelfth unless the whole year to date is requested.
func (s *Service) Performance(ctx context.Context, userID int64, period string, customStart, customEnd *time.Time) (*PerformanceReport, error) {
	win := resolveWindow(period, customStart, customEnd, s.now())

	budgets, err := s.repo.ListActive(ctx, userID, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("listing active budgets: %w", err)
	}
	expenses, err := s.transactions.ListByDateRange(ctx, userID, transaction.TypeExpense, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &PerformanceReport{Period: win, Categories: make([]CategoryPerformance, 0, len(budgets))}
	totalBudgeted := decimal.Zero
	totalSpent := decimal.Zero

	for _, b := range budgets {
		budgeted := b.Amount
		if b.Period == PeriodYearly && period != "year_to_date" {
			budgeted = budgeted.Div(twelve)
		}

		spent := metrics.SumWhere(expenses,
			func(t *transaction.Transaction) decimal.Decimal { return t.Amount },
			func(t *transaction.Transaction) bool {
				return t.CategoryID != nil && *t.CategoryID == b.CategoryID
			})
		count := 0
		for _, t := range expenses {
			if t.CategoryID != nil && *t.CategoryID == b.CategoryID {
				count++
			}
		}

		pct := metrics.Percentage(spent, budgeted)
		name, ok := names[b.CategoryID]
		if !ok {
			name = "Unknown"
		}
		report.Categories = append(report.Categories, CategoryPerformance{
			BudgetID:         b.ID,
			CategoryID:       b.CategoryID,
			CategoryName:     name,
			Budgeted:         budgeted,
			Spent:            spent,
			Remaining:        budgeted.Sub(spent),
			Percentage:       pct,
			Status:           statusFor(pct),
			TransactionCount: count,
		})

		totalBudgeted = totalBudgeted.Add(budgeted)
		totalSpent = totalSpent.Add(spent)
	}

	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Percentage > report.Categories[j].Percentage
	})

	overallPct := metrics.Percentage(totalSpent, totalBudgeted)
	report.Overall = OverallPerformance{
		Budgeted:   totalBudgeted,
		Spent:      totalSpent,
		Remaining:  totalBudgeted.Sub(totalSpent),
		Percentage: overallPct,
		Status:     statusFor(overallPct),
	}
	return report, nil
}

// Recommendations proposes budgets for expense categories with spending
// in the trailing three months and no budget yet. The suggested amount
// is the monthly average rounded up to the nearest ten.
func (s *Service) Recommendations(ctx context.Context, userID int64) ([]Recommendation, error) {
	now := s.now()
	expenses, err := s.transactions.ListByDateRange(ctx, userID, transaction.TypeExpense, now.AddDate(0, -3, 0), now)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	existing, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	budgeted := make(map[int64]bool, len(existing))
	for _, b := range existing {
		budgeted[b.CategoryID] = true
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	byCategory := make(map[int64]*bucket)
	for _, t := range expenses {
		if t.CategoryID == nil {
			continue
		}
		b, ok := byCategory[*t.CategoryID]
		if !ok {
			b = &bucket{}
			byCategory[*t.CategoryID] = b
		}
		b.total = b.total.Add(t.Amount)
		b.count++
	}

	recommendations := make([]Recommendation, 0, len(byCategory))
	for categoryID, b := range byCategory {
		if budgeted[categoryID] {
			continue
		}
		average := b.total.Div(decimal.NewFromInt(3))
		if !average.IsPositive() {
			continue
		}
		name, ok := names[categoryID]
		if !ok {
			name = "Unknown"
		}
		recommendations = append(recommendations, Recommendation{
			CategoryID:            categoryID,
			CategoryName:          name,
			AverageMonthlyExpense: average,
			RecommendedBudget:     decimal.NewFromInt(int64(math.Ceil(average.InexactFloat64()/10)) * 10),
			TransactionCount:      b.count,
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].AverageMonthlyExpense.GreaterThan(recommendations[j].AverageMonthlyExpense)
	})
	return recommendations, nil
}

func (s *Service) categoryNames(ctx context.Context, userID int64) (map[int64]string, error) {
	cats, err := s.categories.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func statusFor(percentage float64) string {
	switch {
	case percentage < 50:
		return "good"
	case percentage < 85:
		return "warning"
	case percentage < 100:
		return "alert"
	default:
		return "over_budget"
	}
}

func resolveWindow(period string, customStart, customEnd *time.Time, now time.Time) PeriodWindow {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch period {
	case "previous":
		return PeriodWindow{
			StartDate: monthStart.AddDate(0, -1, 0),
			EndDate:   monthStart.AddDate(0, 0, -1),
		}
	case "year_to_date":
		return PeriodWindow{
			StartDate: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			EndDate:   monthStart.AddDate(0, 1, -1),
		}
	case "custom":
		if customStart != nil && customEnd != nil {
			return PeriodWindow{StartDate: *customStart, EndDate: *customEnd}
		}
	}
	return PeriodWindow{StartDate: monthStart, EndDate: monthStart.AddDate(0, 1, -1)}
}
