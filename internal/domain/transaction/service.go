package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/binti59/finance-app/internal/domain/account"
)

// Service contains the business logic for transaction operations. It owns
// the balance bookkeeping: every create/update/delete is turned into the
// set of account balance adjustments the repository applies atomically.
type Service struct {
	repo     Repository
	accounts account.Repository
}

// NewService creates a new transaction service
func NewService(repo Repository, accounts account.Repository) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// ownedAccount loads an account and verifies it belongs to userID.
func (s *Service) ownedAccount(ctx context.Context, accountID string, userID int64) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, account.ErrAccountNotFound
	}
	if acc.UserID != userID {
		return nil, ErrForbidden
	}
	return acc, nil
}

// CreateTransaction validates the input, verifies account ownership and
// inserts the transaction together with its balance adjustment.
func (s *Service) CreateTransaction(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedAccount(ctx, params.AccountID, params.UserID); err != nil {
		return nil, err
	}

	adjustments := []BalanceAdjustment{
		{AccountID: params.AccountID, Delta: BalanceDelta(params.Type, params.Amount)},
	}
	return s.repo.Create(ctx, uuid.NewString(), params, adjustments)
}

// GetTransaction retrieves a transaction and verifies user ownership
func (s *Service) GetTransaction(ctx context.Context, id string, userID int64) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.UserID != userID {
		return nil, ErrForbidden
	}
	return txn, nil
}

// ListTransactions returns a filtered page of the user's transactions.
func (s *Service) ListTransactions(ctx context.Context, userID int64, filter Filter) ([]*Transaction, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, userID, filter)
}

// UpdateTransaction applies partial updates. The old signed amount is
// reverted on the old account and the new signed amount applied on the
// new one, all in the repository's single database transaction.
func (s *Service) UpdateTransaction(ctx context.Context, id string, userID int64, params UpdateParams) (*Transaction, error) {
	current, err := s.GetTransaction(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	newAccountID := current.AccountID
	if params.AccountID != nil && *params.AccountID != current.AccountID {
		if _, err := s.ownedAccount(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
		newAccountID = *params.AccountID
	}

	newType := current.Type
	if params.Type != nil {
		if !IsValidType(*params.Type) {
			return nil, ErrInvalidType
		}
		newType = *params.Type
	}

	newAmount := current.Amount
	if params.Amount != nil {
		if params.Amount.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		newAmount = *params.Amount
	}

	adjustments := []BalanceAdjustment{
		{AccountID: current.AccountID, Delta: BalanceDelta(current.Type, current.Amount).Neg()},
		{AccountID: newAccountID, Delta: BalanceDelta(newType, newAmount)},
	}
	return s.repo.Update(ctx, id, params, adjustments)
}

// DeleteTransaction removes a transaction and reverts its balance effect.
func (s *Service) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	current, err := s.GetTransaction(ctx, id, userID)
	if err != nil {
		return err
	}

	adjustments := []BalanceAdjustment{
		{AccountID: current.AccountID, Delta: BalanceDelta(current.Type, current.Amount).Neg()},
	}
	return s.repo.Delete(ctx, id, adjustments)
}

// RecurringReport holds transactions already marked recurring by the user
// plus the groups the detector flagged as candidates.
type RecurringReport struct {
	MarkedRecurring    []*Transaction   `json:"marked_recurring"`
	PotentialRecurring []RecurringGroup `json:"potential_recurring"`
}

// RecurringTransactions returns the user's marked recurring transactions
// and runs the interval detector over the unmarked ones.
func (s *Service) RecurringTransactions(ctx context.Context, userID int64) (*RecurringReport, error) {
	marked, err := s.repo.ListByRecurringFlag(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	unmarked, err := s.repo.ListByRecurringFlag(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	return &RecurringReport{
		MarkedRecurring:    marked,
		PotentialRecurring: DetectRecurring(unmarked),
	}, nil
}
