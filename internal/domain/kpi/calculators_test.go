package kpi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/liability"
)

func TestNetWorth(t *testing.T) {
	assets := []*asset.Asset{
		{Type: "stock", Value: decimal.NewFromInt(60000)},
		{Type: "bond", Value: decimal.NewFromInt(30000)},
		{Type: "cash", Value: decimal.NewFromInt(10000)},
	}

	if got := NetWorth(assets, nil); !got.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("NetWorth() = %s, want 100000", got)
	}

	liabilities := []*liability.Liability{
		{Type: "mortgage", Amount: decimal.NewFromInt(150000)},
	}
	if got := NetWorth(assets, liabilities); !got.Equal(decimal.NewFromInt(-50000)) {
		t.Errorf("NetWorth() with debt = %s, want -50000", got)
	}

	if got := NetWorth(nil, nil); !got.IsZero() {
		t.Errorf("NetWorth() empty = %s, want 0", got)
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		income   int64
		expenses int64
		want     float64
	}{
		{"Typical Month", 5000, 3500, 30},
		{"Zero Income", 0, 3500, 0},
		{"Overspent", 1000, 1500, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsRate(decimal.NewFromInt(tt.income), decimal.NewFromInt(tt.expenses))
			if got != tt.want {
				t.Errorf("SavingsRate(%d, %d) = %v, want %v", tt.income, tt.expenses, got, tt.want)
			}
		})
	}
}

func history(values ...float64) []*KPI {
	h := make([]*KPI, len(values))
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		h[i] = &KPI{Value: decimal.NewFromFloat(v), Date: base.AddDate(0, i, 0)}
	}
	return h
}

func TestGrowthRates(t *testing.T) {
	t.Run("Too Short", func(t *testing.T) {
		monthly, yearly := GrowthRates(history(100))
		if monthly != 0 || yearly != 0 {
			t.Errorf("growth = %v/%v, want 0/0", monthly, yearly)
		}
	})

	t.Run("Monthly Only", func(t *testing.T) {
		monthly, yearly := GrowthRates(history(100, 110))
		if monthly != 10 {
			t.Errorf("monthly = %v, want 10", monthly)
		}
		if yearly != 0 {
			t.Errorf("yearly = %v, want 0 with fewer than twelve entries", yearly)
		}
	})

	t.Run("Full Year", func(t *testing.T) {
		h := history(100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 150)
		monthly, yearly := GrowthRates(h)
		if yearly != 50 {
			t.Errorf("yearly = %v, want 50", yearly)
		}
		wantMonthly := (150.0 - 110.0) / 110.0 * 100
		if monthly != wantMonthly {
			t.Errorf("monthly = %v, want %v", monthly, wantMonthly)
		}
	})

	t.Run("Non-Positive Baseline", func(t *testing.T) {
		monthly, _ := GrowthRates(history(0, 100))
		if monthly != 0 {
			t.Errorf("monthly = %v, want 0 when the previous value is not positive", monthly)
		}
	})
}

func TestFIIndex(t *testing.T) {
	if got := FIIndex(250000, 1000000); got != 25 {
		t.Errorf("FIIndex = %v, want 25", got)
	}
	// A zero freedom number must not produce NaN or Inf.
	if got := FIIndex(250000, 0); got != 0 {
		t.Errorf("FIIndex with zero freedom number = %v, want 0", got)
	}
	if got := FIIndex(-5000, 1000000); got != -0.5 {
		t.Errorf("FIIndex with negative net worth = %v, want -0.5", got)
	}
}

func TestFreedomNumber(t *testing.T) {
	if got := FreedomNumber(40000, 4); got != 1000000 {
		t.Errorf("FreedomNumber(40000, 4) = %v, want 1000000", got)
	}
	if got := FreedomNumber(40000, 0); got != 0 {
		t.Errorf("FreedomNumber with zero rate = %v, want 0", got)
	}
}

func TestHealthComponents(t *testing.T) {
	tests := []struct {
		name        string
		netWorth    float64
		savingsRate float64
		fiIndex     float64
		wantScore   float64
	}{
		{"Broke", 0, 0, 0, 0},
		{"Small Net Worth", 5000, 0, 0, 10},
		{"Mid Net Worth", 60000, 0, 0, 30},
		{"Savings Rate Capped", 200000, 55, 0, 40 + 40},
		{"FI Progress Capped", 200000, 20, 150, 40 + 20 + 20},
		{"Typical", 30000, 25, 10, 20 + 25 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components, score := HealthComponents(tt.netWorth, tt.savingsRate, tt.fiIndex)
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if len(components) != 3 {
				t.Fatalf("expected 3 components, got %d", len(components))
			}
			var total float64
			for _, c := range components {
				total += c.Score
			}
			if total != score {
				t.Errorf("component scores sum to %v, total is %v", total, score)
			}
		})
	}
}

func TestHealthStatus(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Excellent"},
		{80, "Excellent"},
		{79.9, "Good"},
		{60, "Good"},
		{59.9, "Fair"},
		{40, "Fair"},
		{39.9, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := HealthStatus(tt.score); got != tt.want {
			t.Errorf("HealthStatus(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAverageValue(t *testing.T) {
	if got := AverageValue(nil); got != 0 {
		t.Errorf("AverageValue(nil) = %v, want 0", got)
	}
	if got := AverageValue(history(10, 20, 30)); got != 20 {
		t.Errorf("AverageValue = %v, want 20", got)
	}
}
