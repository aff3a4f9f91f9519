package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, id string, params CreateParams) (*Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*Account, error)
	UpdateFunc       func(ctx context.Context, id string, params UpdateParams) (*Account, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockRepository) Create(ctx context.Context, id string, params CreateParams) (*Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64) ([]*Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, params UpdateParams) (*Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockLedger is a mock implementation of LedgerSource
type MockLedger struct {
	entries []LedgerEntry
	err     error
}

func (m *MockLedger) ListEntriesByAccountID(ctx context.Context, accountID string) ([]LedgerEntry, error) {
	return m.entries, m.err
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{
			name: "Success",
			params: CreateParams{
				UserID:   1,
				Name:     "Everyday Checking",
				Type:     "checking",
				Currency: "USD",
			},
		},
		{
			name: "Default Currency",
			params: CreateParams{
				UserID: 1,
				Name:   "Savings",
				Type:   "savings",
			},
		},
		{
			name: "Invalid Type",
			params: CreateParams{
				UserID:   1,
				Name:     "Brokerage",
				Type:     "BROKERAGE",
				Currency: "USD",
			},
			wantErr: ErrInvalidAccountType,
		},
		{
			name: "Invalid Currency",
			params: CreateParams{
				UserID:   1,
				Name:     "Checking",
				Type:     "checking",
				Currency: "DOLLARS",
			},
			wantErr: ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, id string, params CreateParams) (*Account, error) {
					if id == "" {
						t.Error("expected generated account ID, got empty string")
					}
					return &Account{
						ID:       id,
						UserID:   params.UserID,
						Name:     params.Name,
						Type:     params.Type,
						Currency: params.Currency,
						IsActive: true,
					}, nil
				},
			}
			svc := NewService(repo, &MockLedger{})

			acc, err := svc.CreateAccount(ctx, tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateAccount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateAccount() unexpected error: %v", err)
			}
			if tt.params.Currency == "" && acc.Currency != "USD" {
				t.Errorf("expected default USD currency, got %s", acc.Currency)
			}
		})
	}
}

func TestGetAccount_Ownership(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return &Account{ID: id, UserID: 42}, nil
		},
	}
	svc := NewService(repo, &MockLedger{})

	if _, err := svc.GetAccount(ctx, "acc-1", 42); err != nil {
		t.Errorf("GetAccount() owner access failed: %v", err)
	}
	if _, err := svc.GetAccount(ctx, "acc-1", 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetAccount() foreign access error = %v, want ErrForbidden", err)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &MockLedger{})

	if _, err := svc.GetAccount(context.Background(), "missing", 1); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccount() error = %v, want ErrAccountNotFound", err)
	}
}

func TestBalanceHistory(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC) }

	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return &Account{ID: id, UserID: 1, Balance: decimal.NewFromInt(120)}, nil
		},
	}
	ledger := &MockLedger{entries: []LedgerEntry{
		{TransactionID: "t1", Date: day(1), Type: "income", Amount: decimal.NewFromInt(100)},
		{TransactionID: "t2", Date: day(2), Type: "expense", Amount: decimal.NewFromInt(30)},
		{TransactionID: "t3", Date: day(3), Type: "income", Amount: decimal.NewFromInt(50)},
	}}
	svc := NewService(repo, ledger)

	_, history, err := svc.BalanceHistory(ctx, "acc-1", 1)
	if err != nil {
		t.Fatalf("BalanceHistory() error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 points, got %d", len(history))
	}

	// Each point holds the balance before its transaction:
	// before t3: 120-50=70, before t2: 70+30=100, before t1: 100-100=0.
	wants := []int64{0, 100, 70}
	for i, want := range wants {
		if !history[i].Balance.Equal(decimal.NewFromInt(want)) {
			t.Errorf("history[%d].Balance = %s, want %d", i, history[i].Balance, want)
		}
	}
}
