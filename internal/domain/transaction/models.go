package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("transaction type must be income, expense or transfer")
	ErrInvalidAmount       = errors.New("transaction amount must be positive")
	ErrForbidden           = errors.New("access forbidden")
)

// Transaction stores Amount as a non-negative decimal; the sign is derived
// from Type at every aggregation site. BalanceDelta centralizes that
// derivation; no caller applies a sign by hand.
type Transaction struct {
	ID                string          `json:"id"`
	UserID            int64           `json:"user_id"`
	AccountID         string          `json:"account_id"`
	CategoryID        *int64          `json:"category_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Type              string          `json:"type"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurrencePattern *string         `json:"recurrence_pattern,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BalanceDelta returns the signed effect of a transaction on its account
// balance: income adds, expense subtracts, transfer leaves it unchanged.
func BalanceDelta(txType string, amount decimal.Decimal) decimal.Decimal {
	switch txType {
	case TypeIncome:
		return amount
	case TypeExpense:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}

type CreateParams struct {
	UserID            int64
	AccountID         string
	CategoryID        *int64
	Amount            decimal.Decimal
	Description       string
	TransactionDate   time.Time
	Type              string
	IsRecurring       bool
	RecurrencePattern *string
}

func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	if p.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if p.TransactionDate.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}

type UpdateParams struct {
	AccountID         *string
	CategoryID        *int64
	Amount            *decimal.Decimal
	Description       *string
	TransactionDate   *time.Time
	Type              *string
	IsRecurring       *bool
	RecurrencePattern *string
}

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	AccountID  string
	CategoryID *int64
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Limit      int
	Offset     int
}
