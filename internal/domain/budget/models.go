package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

var periods = map[string]bool{
	PeriodWeekly:  true,
	PeriodMonthly: true,
	PeriodYearly:  true,
}

var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrDuplicateBudget = errors.New("budget already exists for this category and period")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("budget amount must be positive")
	ErrForbidden       = errors.New("budget belongs to another user")
)

// Budget caps spending for one category over a recurring period.
// A nil EndDate keeps the budget open-ended.
type Budget struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Period     string          `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type CreateParams struct {
	UserID     int64           `json:"-"`
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Period     string          `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
}

func (p CreateParams) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Period != "" && !periods[p.Period] {
		return ErrInvalidPeriod
	}
	return nil
}

type UpdateParams struct {
	CategoryID *int64           `json:"category_id"`
	Amount     *decimal.Decimal `json:"amount"`
	Currency   *string          `json:"currency"`
	Period     *string          `json:"period"`
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
}

// PeriodWindow is the resolved date range a performance report covers.
type PeriodWindow struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CategoryPerformance compares one budget against the spending
// recorded in its category during the window.
type CategoryPerformance struct {
	BudgetID         int64           `json:"budget_id"`
	CategoryID       int64           `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Budgeted         decimal.Decimal `json:"budgeted"`
	Spent            decimal.Decimal `json:"spent"`
	Remaining        decimal.Decimal `json:"remaining"`
	Percentage       float64         `json:"percentage"`
	Status           string          `json:"status"`
	TransactionCount int             `json:"transaction_count"`
}

type OverallPerformance struct {
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Status     string          `json:"status"`
}

type PerformanceReport struct {
	Period     PeriodWindow          `json:"period"`
	Overall    OverallPerformance    `json:"overall"`
	Categories []CategoryPerformance `json:"categories"`
}

// Recommendation suggests a starting budget for a category the user
// spends in but has not budgeted yet.
type Recommendation struct {
	CategoryID            int64           `json:"category_id"`
	CategoryName          string          `json:"category_name"`
	AverageMonthlyExpense decimal.Decimal `json:"average_monthly_expense"`
	RecommendedBudget     decimal.Decimal `json:"recommended_budget"`
	TransactionCount      int             `json:"transaction_count"`
}
