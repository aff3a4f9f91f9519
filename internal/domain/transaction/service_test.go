package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc              func(ctx context.Context, id string, params CreateParams, adjustments []BalanceAdjustment) (*Transaction, error)
	GetByIDFunc             func(ctx context.Context, id string) (*Transaction, error)
	ListFunc                func(ctx context.Context, userID int64, filter Filter) ([]*Transaction, int64, error)
	UpdateFunc              func(ctx context.Context, id string, params UpdateParams, adjustments []BalanceAdjustment) (*Transaction, error)
	DeleteFunc              func(ctx context.Context, id string, adjustments []BalanceAdjustment) error
	ListByDateRangeFunc     func(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*Transaction, error)
	ListByRecurringFlagFunc func(ctx context.Context, userID int64, isRecurring bool) ([]*Transaction, error)
}

func (m *MockRepository) Create(ctx context.Context, id string, params CreateParams, adjustments []BalanceAdjustment) (*Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, id, params, adjustments)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) List(ctx context.Context, userID int64, filter Filter) ([]*Transaction, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	return nil, 0, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, params UpdateParams, adjustments []BalanceAdjustment) (*Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params, adjustments)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string, adjustments []BalanceAdjustment) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, adjustments)
	}
	return nil
}

func (m *MockRepository) ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, userID, txType, start, end)
	}
	return nil, nil
}

func (m *MockRepository) ListByRecurringFlag(ctx context.Context, userID int64, isRecurring bool) ([]*Transaction, error) {
	if m.ListByRecurringFlagFunc != nil {
		return m.ListByRecurringFlagFunc(ctx, userID, isRecurring)
	}
	return nil, nil
}

// MockAccountRepo implements account.Repository for ownership checks.
type MockAccountRepo struct {
	accounts map[string]*account.Account
}

func (m *MockAccountRepo) Create(ctx context.Context, id string, params account.CreateParams) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return m.accounts[id], nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepo) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id string) error { return nil }

func TestBalanceDelta(t *testing.T) {
	amount := decimal.NewFromFloat(42.50)

	if got := BalanceDelta(TypeIncome, amount); !got.Equal(amount) {
		t.Errorf("BalanceDelta(income) = %s, want %s", got, amount)
	}
	if got := BalanceDelta(TypeExpense, amount); !got.Equal(amount.Neg()) {
		t.Errorf("BalanceDelta(expense) = %s, want %s", got, amount.Neg())
	}
	if got := BalanceDelta(TypeTransfer, amount); !got.IsZero() {
		t.Errorf("BalanceDelta(transfer) = %s, want 0", got)
	}
}

func TestCreateTransaction_AppliesBalanceDelta(t *testing.T) {
	ctx := context.Background()
	accounts := &MockAccountRepo{accounts: map[string]*account.Account{
		"acc-1": {ID: "acc-1", UserID: 1},
	}}

	var gotAdjustments []BalanceAdjustment
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, id string, params CreateParams, adjustments []BalanceAdjustment) (*Transaction, error) {
			gotAdjustments = adjustments
			return &Transaction{ID: id, UserID: params.UserID, AccountID: params.AccountID, Amount: params.Amount, Type: params.Type}, nil
		},
	}
	svc := NewService(repo, accounts)

	_, err := svc.CreateTransaction(ctx, CreateParams{
		UserID:          1,
		AccountID:       "acc-1",
		Amount:          decimal.NewFromInt(100),
		Type:            TypeExpense,
		TransactionDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	if len(gotAdjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(gotAdjustments))
	}
	if !gotAdjustments[0].Delta.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("adjustment delta = %s, want -100", gotAdjustments[0].Delta)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	ctx := context.Background()
	accounts := &MockAccountRepo{accounts: map[string]*account.Account{
		"acc-1": {ID: "acc-1", UserID: 1},
	}}
	svc := NewService(&MockRepository{}, accounts)

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{
			name: "Negative Amount",
			params: CreateParams{
				UserID: 1, AccountID: "acc-1", Amount: decimal.NewFromInt(-5),
				Type: TypeExpense, TransactionDate: time.Now(),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "Bad Type",
			params: CreateParams{
				UserID: 1, AccountID: "acc-1", Amount: decimal.NewFromInt(5),
				Type: "refund", TransactionDate: time.Now(),
			},
			wantErr: ErrInvalidType,
		},
		{
			name: "Foreign Account",
			params: CreateParams{
				UserID: 2, AccountID: "acc-1", Amount: decimal.NewFromInt(5),
				Type: TypeExpense, TransactionDate: time.Now(),
			},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTransaction(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateTransaction_MovesBalanceBetweenAccounts(t *testing.T) {
	ctx := context.Background()
	accounts := &MockAccountRepo{accounts: map[string]*account.Account{
		"acc-1": {ID: "acc-1", UserID: 1},
		"acc-2": {ID: "acc-2", UserID: 1},
	}}

	existing := &Transaction{
		ID: "t1", UserID: 1, AccountID: "acc-1",
		Amount: decimal.NewFromInt(100), Type: TypeIncome,
	}

	var gotAdjustments []BalanceAdjustment
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Transaction, error) { return existing, nil },
		UpdateFunc: func(ctx context.Context, id string, params UpdateParams, adjustments []BalanceAdjustment) (*Transaction, error) {
			gotAdjustments = adjustments
			return existing, nil
		},
	}
	svc := NewService(repo, accounts)

	newAccount := "acc-2"
	newAmount := decimal.NewFromInt(60)
	_, err := svc.UpdateTransaction(ctx, "t1", 1, UpdateParams{
		AccountID: &newAccount,
		Amount:    &newAmount,
	})
	if err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}

	if len(gotAdjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(gotAdjustments))
	}
	// Revert +100 income on acc-1, apply +60 income on acc-2.
	if gotAdjustments[0].AccountID != "acc-1" || !gotAdjustments[0].Delta.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("revert adjustment = %+v", gotAdjustments[0])
	}
	if gotAdjustments[1].AccountID != "acc-2" || !gotAdjustments[1].Delta.Equal(decimal.NewFromInt(60)) {
		t.Errorf("apply adjustment = %+v", gotAdjustments[1])
	}
}

func TestDeleteTransaction_RevertsBalance(t *testing.T) {
	ctx := context.Background()
	existing := &Transaction{
		ID: "t1", UserID: 1, AccountID: "acc-1",
		Amount: decimal.NewFromInt(25), Type: TypeExpense,
	}

	var gotAdjustments []BalanceAdjustment
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Transaction, error) { return existing, nil },
		DeleteFunc: func(ctx context.Context, id string, adjustments []BalanceAdjustment) error {
			gotAdjustments = adjustments
			return nil
		},
	}
	svc := NewService(repo, &MockAccountRepo{})

	if err := svc.DeleteTransaction(ctx, "t1", 1); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if len(gotAdjustments) != 1 || !gotAdjustments[0].Delta.Equal(decimal.NewFromInt(25)) {
		t.Errorf("adjustments = %+v, want single +25 revert", gotAdjustments)
	}
}
