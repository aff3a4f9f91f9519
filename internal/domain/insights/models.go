package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

// ChangeMetric is a headline value with its percentage change against
// the previous month. ChangeType is "positive" or "negative" from the
// user's point of view, so falling expenses count as positive.
type ChangeMetric struct {
	Value      decimal.Decimal `json:"value"`
	Change     float64         `json:"change"`
	ChangeType string          `json:"change_type"`
}

// RateMetric is a percentage-valued headline; its change is expressed
// in points rather than relative growth.
type RateMetric struct {
	Value      float64 `json:"value"`
	Change     float64 `json:"change"`
	ChangeType string  `json:"change_type"`
}

type DashboardSummary struct {
	NetWorth           ChangeMetric               `json:"net_worth"`
	MonthlyIncome      ChangeMetric               `json:"monthly_income"`
	MonthlyExpenses    ChangeMetric               `json:"monthly_expenses"`
	SavingsRate        RateMetric                 `json:"savings_rate"`
	Accounts           []*account.Account         `json:"accounts"`
	RecentTransactions []*transaction.Transaction `json:"recent_transactions"`
}

// TypeTotal aggregates one record type's total, used for the grouped
// sections of the financial summary.
type TypeTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
}

type FinancialSummary struct {
	AccountBalances    []TypeTotal `json:"account_balances"`
	AssetAllocation    []TypeTotal `json:"asset_allocation"`
	LiabilityBreakdown []TypeTotal `json:"liability_breakdown"`
	NetWorthHistory    []*kpi.KPI  `json:"net_worth_history"`
	SavingsRateHistory []*kpi.KPI  `json:"savings_rate_history"`
}

// CashflowPoint is one time bucket of income against expenses. Period
// keys sort lexicographically in chronological order.
type CashflowPoint struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type Window struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type CategoryExpense struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	Percentage   float64         `json:"percentage"`
}

type ExpenseBreakdown struct {
	TotalExpenses decimal.Decimal   `json:"total_expenses"`
	Period        Window            `json:"period"`
	Breakdown     []CategoryExpense `json:"breakdown"`
}
