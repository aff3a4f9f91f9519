package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func txn(id, description string, amount float64, txType string, date time.Time) *Transaction {
	return &Transaction{
		ID:              id,
		Description:     description,
		Amount:          decimal.NewFromFloat(amount),
		Type:            txType,
		TransactionDate: date,
	}
}

func TestDetectRecurring_Monthly(t *testing.T) {
	// First of three consecutive months: gaps of 31 and 28 days,
	// mean 29.5, both within the 2-day tolerance.
	txns := []*Transaction{
		txn("a", "Netflix", 15.99, TypeExpense, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		txn("b", "Netflix", 15.99, TypeExpense, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		txn("c", "Netflix", 15.99, TypeExpense, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}

	groups := DetectRecurring(txns)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Pattern != "monthly" {
		t.Errorf("Pattern = %q, want monthly", g.Pattern)
	}
	if g.Occurrences != 3 {
		t.Errorf("Occurrences = %d, want 3", g.Occurrences)
	}
	if len(g.TransactionIDs) != 3 || g.TransactionIDs[0] != "a" {
		t.Errorf("TransactionIDs = %v, want [a b c]", g.TransactionIDs)
	}
	if !g.LastDate.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("LastDate = %v", g.LastDate)
	}
}

func TestDetectRecurring_TooFewOccurrences(t *testing.T) {
	txns := []*Transaction{
		txn("a", "Gym", 30, TypeExpense, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		txn("b", "Gym", 30, TypeExpense, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
	}
	if groups := DetectRecurring(txns); len(groups) != 0 {
		t.Errorf("expected no groups for 2 occurrences, got %d", len(groups))
	}
}

func TestDetectRecurring_InconsistentGaps(t *testing.T) {
	// Gaps of 7 and 40 days: far outside the per-gap tolerance.
	txns := []*Transaction{
		txn("a", "Groceries", 82.50, TypeExpense, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		txn("b", "Groceries", 82.50, TypeExpense, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)),
		txn("c", "Groceries", 82.50, TypeExpense, time.Date(2024, time.February, 17, 0, 0, 0, 0, time.UTC)),
	}
	if groups := DetectRecurring(txns); len(groups) != 0 {
		t.Errorf("expected no groups for inconsistent gaps, got %d", len(groups))
	}
}

func TestDetectRecurring_SignatureSeparatesGroups(t *testing.T) {
	base := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	var txns []*Transaction
	for i := 0; i < 3; i++ {
		d := base.AddDate(0, i, 0)
		txns = append(txns,
			txn("w"+string(rune('a'+i)), "Paycheck", 2500, TypeIncome, d),
			// Same description and dates, different amount: separate group.
			txn("x"+string(rune('a'+i)), "Paycheck", 300, TypeIncome, d),
		)
	}

	groups := DetectRecurring(txns)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups split by amount, got %d", len(groups))
	}
}

func TestPatternLabel(t *testing.T) {
	tests := []struct {
		gap  float64
		want string
	}{
		{7, "weekly"},
		{14, "bi-weekly"},
		{30, "monthly"},
		{91, "quarterly"},
		{365, "annually"},
		{45, "every 45 days"},
		{10.4, "every 10 days"},
	}
	for _, tt := range tests {
		if got := patternLabel(tt.gap); got != tt.want {
			t.Errorf("patternLabel(%v) = %q, want %q", tt.gap, got, tt.want)
		}
	}
}
