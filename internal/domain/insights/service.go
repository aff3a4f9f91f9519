package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/domain/metrics"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

const recentTransactionCount = 5

// Service assembles cross-entity reports. It reads every domain's
// store but owns no table of its own beyond the KPI rows it appends.
type Service struct {
	accounts     account.Repository
	assets       asset.Repository
	liabilities  liability.Repository
	transactions transaction.Repository
	categories   category.Repository
	kpis         kpi.Repository
	now          func() time.Time
}

func NewService(
	accounts account.Repository,
	assets asset.Repository,
	liabilities liability.Repository,
	transactions transaction.Repository,
	categories category.Repository,
	kpis kpi.Repository,
) *Service {
	return &Service{
		accounts:     accounts,
		assets:       assets,
		liabilities:  liabilities,
		transactions: transactions,
		categories:   categories,
		kpis:         kpis,
		now:          time.Now,
	}
}

// Dashboard computes the headline numbers for the landing page and
// records today's net_worth and savings_rate snapshots as a side
// effect.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*DashboardSummary, error) {
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	assets, err := s.assets.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	liabilities, err := s.liabilities.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing liabilities: %w", err)
	}

	netWorth := kpi.NetWorth(assets, liabilities)

	recent, _, err := s.transactions.List(ctx, userID, transaction.Filter{Limit: recentTransactionCount})
	if err != nil {
		return nil, fmt.Errorf("listing recent transactions: %w", err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)

	income, expenses, err := s.monthlyTotals(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	prevIncome, prevExpenses, err := s.monthlyTotals(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	savingsRate := kpi.SavingsRate(income, expenses)
	prevSavingsRate := kpi.SavingsRate(prevIncome, prevExpenses)
	savingsRateChange := 0.0
	if prevSavingsRate > 0 {
		savingsRateChange = savingsRate - prevSavingsRate
	}

	prevNetWorth := 0.0
	if row, err := s.kpis.LatestInRange(ctx, userID, kpi.TypeNetWorth, prevStart, prevEnd); err != nil {
		return nil, err
	} else if row != nil {
		prevNetWorth = row.Value.InexactFloat64()
	}

	if _, err := kpi.Record(ctx, s.kpis, userID, kpi.TypeNetWorth, netWorth, now); err != nil {
		return nil, fmt.Errorf("recording net_worth: %w", err)
	}
	if _, err := kpi.Record(ctx, s.kpis, userID, kpi.TypeSavingsRate, decimal.NewFromFloat(savingsRate), now); err != nil {
		return nil, fmt.Errorf("recording savings_rate: %w", err)
	}

	return &DashboardSummary{
		NetWorth:        changeMetric(netWorth, metrics.GrowthRate(netWorth.InexactFloat64(), prevNetWorth), false),
		MonthlyIncome:   changeMetric(income, metrics.GrowthRate(income.InexactFloat64(), prevIncome.InexactFloat64()), false),
		MonthlyExpenses: changeMetric(expenses, metrics.GrowthRate(expenses.InexactFloat64(), prevExpenses.InexactFloat64()), true),
		SavingsRate: RateMetric{
			Value:      savingsRate,
			Change:     savingsRateChange,
			ChangeType: changeType(savingsRateChange, false),
		},
		Accounts:           accounts,
		RecentTransactions: recent,
	}, nil
}

// Summary groups balances, assets and debt by type alongside the
// stored net worth and savings rate series.
func (s *Service) Summary(ctx context.Context, userID int64) (*FinancialSummary, error) {
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	assets, err := s.assets.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	liabilities, err := s.liabilities.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing liabilities: %w", err)
	}

	summary := &FinancialSummary{}
	summary.AccountBalances = groupTotals(accounts,
		func(a *account.Account) string { return a.Type },
		func(a *account.Account) decimal.Decimal { return a.Balance })
	summary.AssetAllocation = groupTotals(assets,
		func(a *asset.Asset) string { return a.Type },
		func(a *asset.Asset) decimal.Decimal { return a.Value })
	summary.LiabilityBreakdown = groupTotals(liabilities,
		func(l *liability.Liability) string { return l.Type },
		func(l *liability.Liability) decimal.Decimal { return l.Amount })

	summary.NetWorthHistory, err = s.kpis.ListRecent(ctx, userID, kpi.TypeNetWorth, 12)
	if err != nil {
		return nil, err
	}
	summary.SavingsRateHistory, err = s.kpis.ListRecent(ctx, userID, kpi.TypeSavingsRate, 12)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Cashflow buckets the user's transactions into period keys and nets
// income against expenses per bucket. Without an explicit range it
// covers the trailing twelve months.
func (s *Service) Cashflow(ctx context.Context, userID int64, granularity string, start, end *time.Time) ([]CashflowPoint, error) {
	g := metrics.ParseGranularity(granularity)

	var from, to time.Time
	if start != nil && end != nil {
		from, to = *start, *end
	} else {
		to = s.now()
		from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location()).AddDate(0, -11, 0)
	}

	txs, err := s.transactions.ListByDateRange(ctx, userID, "", from, to)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	buckets := make(map[string]*CashflowPoint)
	for _, t := range txs {
		key := metrics.PeriodKey(t.TransactionDate, g)
		point, ok := buckets[key]
		if !ok {
			point = &CashflowPoint{Period: key}
			buckets[key] = point
		}
		switch t.Type {
		case transaction.TypeIncome:
			point.Income = point.Income.Add(t.Amount)
		case transaction.TypeExpense:
			point.Expenses = point.Expenses.Add(t.Amount)
		}
		point.Net = point.Income.Sub(point.Expenses)
	}

	result := make([]CashflowPoint, 0, len(buckets))
	for _, point := range buckets {
		result = append(result, *point)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result, nil
}

// ExpenseBreakdown groups a window's expenses by category, with
// uncategorized spending reported under category id 0.
func (s *Service) ExpenseBreakdown(ctx context.Context, userID int64, period string, customStart, customEnd *time.Time) (*ExpenseBreakdown, error) {
	win := s.resolveBreakdownWindow(period, customStart, customEnd)

	expenses, err := s.transactions.ListByDateRange(ctx, userID, transaction.TypeExpense, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	cats, err := s.categories.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	byCategory := make(map[int64]*CategoryExpense)
	total := decimal.Zero
	for _, t := range expenses {
		var id int64
		name := "Uncategorized"
		if t.CategoryID != nil {
			id = *t.CategoryID
			if n, ok := names[id]; ok {
				name = n
			} else {
				name = "Unknown"
			}
		}

		entry, ok := byCategory[id]
		if !ok {
			entry = &CategoryExpense{CategoryID: id, CategoryName: name}
			byCategory[id] = entry
		}
		entry.Amount = entry.Amount.Add(t.Amount)
		entry.Count++
		total = total.Add(t.Amount)
	}

	breakdown := make([]CategoryExpense, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.Percentage = metrics.Percentage(entry.Amount, total)
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})

	return &ExpenseBreakdown{
		TotalExpenses: total,
		Period:        win,
		Breakdown:     breakdown,
	}, nil
}

func (s *Service) monthlyTotals(ctx context.Context, userID int64, start, end time.Time) (income, expenses decimal.Decimal, err error) {
	txs, err := s.transactions.ListByDateRange(ctx, userID, "", start, end)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("listing transactions: %w", err)
	}
	income = metrics.SumWhere(txs,
		func(t *transaction.Transaction) decimal.Decimal { return t.Amount },
		func(t *transaction.Transaction) bool { return t.Type == transaction.TypeIncome })
	expenses = metrics.SumWhere(txs,
		func(t *transaction.Transaction) decimal.Decimal { return t.Amount },
		func(t *transaction.Transaction) bool { return t.Type == transaction.TypeExpense })
	return income, expenses, nil
}

func (s *Service) resolveBreakdownWindow(period string, customStart, customEnd *time.Time) Window {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch period {
	case "previous_month":
		return Window{StartDate: monthStart.AddDate(0, -1, 0), EndDate: monthStart.AddDate(0, 0, -1)}
	case "current_year":
		return Window{
			StartDate: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			EndDate:   time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location()),
		}
	case "custom":
		if customStart != nil && customEnd != nil {
			return Window{StartDate: *customStart, EndDate: *customEnd}
		}
	}
	return Window{StartDate: monthStart, EndDate: monthStart.AddDate(0, 1, -1)}
}

func groupTotals[T any](records []T, key func(T) string, amount func(T) decimal.Decimal) []TypeTotal {
	byType := make(map[string]decimal.Decimal)
	for _, r := range records {
		byType[key(r)] = byType[key(r)].Add(amount(r))
	}
	totals := make([]TypeTotal, 0, len(byType))
	for t, total := range byType {
		totals = append(totals, TypeTotal{Type: t, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Total.GreaterThan(totals[j].Total) })
	return totals
}

func changeMetric(value decimal.Decimal, change float64, invert bool) ChangeMetric {
	return ChangeMetric{
		Value:      value,
		Change:     change,
		ChangeType: changeType(change, invert),
	}
}

// changeType labels a change from the user's perspective; invert flips
// the reading for metrics where shrinking is good.
func changeType(change float64, invert bool) string {
	positive := change >= 0
	if invert {
		positive = change <= 0
	}
	if positive {
		return "positive"
	}
	return "negative"
}
