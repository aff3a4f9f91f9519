package kpi

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeNetWorth      = "net_worth"
	TypeSavingsRate   = "savings_rate"
	TypeFIIndex       = "fi_index"
	TypeFreedomNumber = "freedom_number"
	TypeHealthScore   = "health_score"
)

var kpiTypes = map[string]bool{
	TypeNetWorth:      true,
	TypeSavingsRate:   true,
	TypeFIIndex:       true,
	TypeFreedomNumber: true,
	TypeHealthScore:   true,
}

// DefaultWithdrawalRate is the safe-withdrawal percentage assumed when
// the caller does not supply one.
const DefaultWithdrawalRate = 4.0

// historyWindow bounds every historical series returned by reports.
const historyWindow = 12

var ErrInvalidKPIType = errors.New("invalid kpi type")

// KPI is one stored snapshot of a metric. Derived series (net_worth,
// savings_rate, fi_index) keep at most one row per calendar day; input
// series append a row per calculation.
type KPI struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Filter narrows a KPI listing.
type Filter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Component is one scored slice of the financial health score.
type Component struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
}

type NetWorthReport struct {
	CurrentNetWorth float64 `json:"current_net_worth"`
	MonthlyGrowth   float64 `json:"monthly_growth"`
	YearlyGrowth    float64 `json:"yearly_growth"`
	HistoricalData  []*KPI  `json:"historical_data"`
}

type SavingsRateReport struct {
	CurrentSavingsRate float64 `json:"current_savings_rate"`
	AverageSavingsRate float64 `json:"average_savings_rate"`
	HistoricalData     []*KPI  `json:"historical_data"`
}

type FIIndexReport struct {
	FIIndex        float64 `json:"fi_index"`
	NetWorth       float64 `json:"net_worth"`
	FreedomNumber  float64 `json:"freedom_number"`
	HistoricalData []*KPI  `json:"historical_data"`
}

type FreedomNumberReport struct {
	FreedomNumber      float64 `json:"freedom_number"`
	CurrentNetWorth    float64 `json:"current_net_worth"`
	ProgressPercentage float64 `json:"progress_percentage"`
	WithdrawalRate     float64 `json:"withdrawal_rate"`
}

type HealthScoreReport struct {
	HealthScore    float64     `json:"health_score"`
	HealthStatus   string      `json:"health_status"`
	Components     []Component `json:"components"`
	HistoricalData []*KPI      `json:"historical_data"`
}
