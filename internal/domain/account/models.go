package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	accountTypes = map[string]struct{}{
		"checking":   {},
		"savings":    {},
		"investment": {},
		"credit":     {},
		"loan":       {},
		"mortgage":   {},
		"retirement": {},
		"other":      {},
	}
	// Common ISO 4217 currency codes
	validCurrencies = map[string]struct{}{
		"USD": {}, "EUR": {}, "GBP": {}, "JPY": {}, "CHF": {},
		"CAD": {}, "AUD": {}, "NZD": {}, "CNY": {}, "INR": {},
		"BRL": {}, "MXN": {}, "ZAR": {}, "SEK": {}, "NOK": {},
		"DKK": {}, "PLN": {}, "TRY": {}, "KRW": {}, "SGD": {},
		"HKD": {},
	}
)

// Domain errors
var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAccountNotFound    = errors.New("account not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCurrency    = errors.New("valid ISO 4217 currency is required")
)

// Account represents a financial account domain entity. Balance is a
// running total: it always equals InitialBalance plus the signed sum of
// the account's transactions, maintained atomically by the transaction
// repository.
type Account struct {
	ID             string          `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Institution    string          `json:"institution,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
	LastSync       *time.Time      `json:"last_sync,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BalancePoint is one entry of an account's reconstructed balance history.
type BalancePoint struct {
	Date          time.Time       `json:"date"`
	Balance       decimal.Decimal `json:"balance"`
	TransactionID string          `json:"transaction_id"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	UserID         int64
	Name           string
	Type           string
	Institution    string
	Currency       string
	InitialBalance decimal.Decimal
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if !IsValidAccountType(p.Type) {
		return ErrInvalidAccountType
	}
	if !IsValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// UpdateParams contains parameters for updating an account
type UpdateParams struct {
	Name        *string
	Type        *string
	Institution *string
	IsActive    *bool
	LastSync    *time.Time
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}

// IsValidCurrency checks if the provided currency is a valid ISO 4217 code.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}
