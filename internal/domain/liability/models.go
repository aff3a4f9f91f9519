package liability

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var liabilityTypes = map[string]bool{
	"mortgage":     true,
	"loan":         true,
	"credit_card":  true,
	"student_loan": true,
	"tax":          true,
	"other":        true,
}

const (
	FrequencyWeekly    = "weekly"
	FrequencyBiWeekly  = "bi-weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
)

var paymentFrequencies = map[string]bool{
	FrequencyWeekly:    true,
	FrequencyBiWeekly:  true,
	FrequencyMonthly:   true,
	FrequencyQuarterly: true,
	FrequencyAnnually:  true,
}

var (
	ErrLiabilityNotFound = errors.New("liability not found")
	ErrInvalidType       = errors.New("invalid liability type")
	ErrInvalidAmount     = errors.New("liability amount cannot be negative")
	ErrInvalidFrequency  = errors.New("invalid payment frequency")
	ErrNameRequired      = errors.New("liability name is required")
	ErrForbidden         = errors.New("liability belongs to another user")
)

// Liability is a debt the user owes. InterestRate is an annual
// percentage; PaymentAmount is what the user pays per PaymentFrequency.
type Liability struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	InterestRate     *float64         `json:"interest_rate,omitempty"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount,omitempty"`
	PaymentFrequency *string          `json:"payment_frequency,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreateParams struct {
	UserID           int64            `json:"-"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	InterestRate     *float64         `json:"interest_rate"`
	StartDate        *time.Time       `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount"`
	PaymentFrequency *string          `json:"payment_frequency"`
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !liabilityTypes[p.Type] {
		return ErrInvalidType
	}
	if p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if p.PaymentFrequency != nil && !paymentFrequencies[*p.PaymentFrequency] {
		return ErrInvalidFrequency
	}
	return nil
}

type UpdateParams struct {
	Name             *string          `json:"name"`
	Type             *string          `json:"type"`
	Amount           *decimal.Decimal `json:"amount"`
	Currency         *string          `json:"currency"`
	InterestRate     *float64         `json:"interest_rate"`
	StartDate        *time.Time       `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount"`
	PaymentFrequency *string          `json:"payment_frequency"`
}

// TypeSummary aggregates the user's debt of one type.
type TypeSummary struct {
	Type            string          `json:"type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AvgInterestRate float64         `json:"avg_interest_rate"`
	Count           int             `json:"count"`
}

// ProjectionPoint is a yearly snapshot of the payoff simulation, plus
// the final month when the debt clears.
type ProjectionPoint struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	RemainingDebt float64 `json:"remaining_debt"`
	TotalPaid     float64 `json:"total_paid"`
}

type Summary struct {
	TotalDebt            decimal.Decimal   `json:"total_debt"`
	WeightedInterestRate float64           `json:"weighted_interest_rate"`
	MonthlyPaymentTotal  float64           `json:"monthly_payment_total"`
	DebtByType           []TypeSummary     `json:"debt_by_type"`
	PayoffProjections    []ProjectionPoint `json:"payoff_projections"`
}
