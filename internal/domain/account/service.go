package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is the slice of a transaction the balance replay needs.
// Declared here so the account service does not depend on the transaction
// domain package.
type LedgerEntry struct {
	TransactionID string
	Date          time.Time
	Type          string // "income", "expense" or "transfer"
	Amount        decimal.Decimal
}

// LedgerSource supplies an account's transactions in ascending date order.
type LedgerSource interface {
	ListEntriesByAccountID(ctx context.Context, accountID string) ([]LedgerEntry, error)
}

// Service contains the business logic for account operations
type Service struct {
	repo   Repository
	ledger LedgerSource
}

// NewService creates a new account service
func NewService(repo Repository, ledger LedgerSource) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// CreateAccount creates a new account with business validation
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if params.Currency == "" {
		params.Currency = "USD"
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, uuid.NewString(), params)
}

// GetAccount retrieves an account by ID and verifies user ownership
func (s *Service) GetAccount(ctx context.Context, accountID string, userID int64) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}

	// Business rule: verify ownership
	if acc.UserID != userID {
		return nil, ErrForbidden
	}

	return acc, nil
}

// ListAccounts retrieves all accounts for a specific user
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]*Account, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateAccount applies partial updates after verifying ownership
func (s *Service) UpdateAccount(ctx context.Context, accountID string, userID int64, params UpdateParams) (*Account, error) {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if params.Type != nil && !IsValidAccountType(*params.Type) {
		return nil, ErrInvalidAccountType
	}
	return s.repo.Update(ctx, accountID, params)
}

// DeleteAccount deletes an account after verifying ownership
func (s *Service) DeleteAccount(ctx context.Context, accountID string, userID int64) error {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, accountID)
}

// BalanceHistory reconstructs the running balance of an account by
// replaying its transactions backwards from the current balance. Each
// point carries the balance immediately before the transaction was
// applied, so the series plus the transaction amounts reproduce the
// current balance exactly.
func (s *Service) BalanceHistory(ctx context.Context, accountID string, userID int64) (*Account, []BalancePoint, error) {
	acc, err := s.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.ledger.ListEntriesByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	balance := acc.Balance
	history := make([]BalancePoint, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		switch e.Type {
		case "expense":
			balance = balance.Add(e.Amount)
		case "income":
			balance = balance.Sub(e.Amount)
		}
		history[i] = BalancePoint{
			Date:          e.Date,
			Balance:       balance,
			TransactionID: e.TransactionID,
		}
	}

	return acc, history, nil
}
