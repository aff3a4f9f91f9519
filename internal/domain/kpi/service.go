package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/domain/metrics"
	"github.com/binti59/finance-app/internal/domain/transaction"
)

// AssetSource and LiabilitySource supply the user's current holdings
// for net worth calculations.
type AssetSource interface {
	ListByUserID(ctx context.Context, userID int64) ([]*asset.Asset, error)
}

type LiabilitySource interface {
	ListByUserID(ctx context.Context, userID int64) ([]*liability.Liability, error)
}

// LedgerSource supplies the month's transactions for savings rate
// snapshots.
type LedgerSource interface {
	ListByDateRange(ctx context.Context, userID int64, txType string, start, end time.Time) ([]*transaction.Transaction, error)
}

// Service handles KPI business logic
type Service struct {
	repo        Repository
	assets      AssetSource
	liabilities LiabilitySource
	ledger      LedgerSource
	now         func() time.Time
}

func NewService(repo Repository, assets AssetSource, liabilities LiabilitySource, ledger LedgerSource) *Service {
	return &Service{
		repo:        repo,
		assets:      assets,
		liabilities: liabilities,
		ledger:      ledger,
		now:         time.Now,
	}
}

func (s *Service) ListKPIs(ctx context.Context, userID int64, filter Filter) ([]*KPI, error) {
	if filter.Type != "" && !kpiTypes[filter.Type] {
		return nil, ErrInvalidKPIType
	}
	return s.repo.List(ctx, userID, filter)
}

// CurrentNetWorth computes net worth from the user's assets and
// liabilities as they stand now.
func (s *Service) CurrentNetWorth(ctx context.Context, userID int64) (decimal.Decimal, error) {
	assets, err := s.assets.ListByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing assets: %w", err)
	}
	liabilities, err := s.liabilities.ListByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing liabilities: %w", err)
	}
	return NetWorth(assets, liabilities), nil
}

// SnapshotDaily recalculates the derived metrics from live data and
// stores today's rows: net worth from current holdings, savings rate
// from the month-to-date ledger, and the FI index from both. The
// scheduler runs this once per user per cycle so the stored series
// keeps moving even when nobody opens the dashboard.
func (s *Service) SnapshotDaily(ctx context.Context, userID int64) error {
	now := s.now()

	netWorth, err := s.CurrentNetWorth(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := Record(ctx, s.repo, userID, TypeNetWorth, netWorth, now); err != nil {
		return fmt.Errorf("recording net_worth: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	txs, err := s.ledger.ListByDateRange(ctx, userID, "", monthStart, now)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}
	income := metrics.SumWhere(txs,
		func(t *transaction.Transaction) decimal.Decimal { return t.Amount },
		func(t *transaction.Transaction) bool { return t.Type == transaction.TypeIncome })
	expenses := metrics.SumWhere(txs,
		func(t *transaction.Transaction) decimal.Decimal { return t.Amount },
		func(t *transaction.Transaction) bool { return t.Type == transaction.TypeExpense })
	savingsRate := SavingsRate(income, expenses)
	if _, err := Record(ctx, s.repo, userID, TypeSavingsRate, decimal.NewFromFloat(savingsRate), now); err != nil {
		return fmt.Errorf("recording savings_rate: %w", err)
	}

	freedomNumber, err := s.repo.Latest(ctx, userID, TypeFreedomNumber)
	if err != nil {
		return err
	}
	var target float64
	if freedomNumber != nil {
		target = freedomNumber.Value.InexactFloat64()
	}
	fiIndex := FIIndex(netWorth.InexactFloat64(), target)
	if _, err := Record(ctx, s.repo, userID, TypeFIIndex, decimal.NewFromFloat(fiIndex), now); err != nil {
		return fmt.Errorf("recording fi_index: %w", err)
	}
	return nil
}

// NetWorthReport reads the stored net worth series and derives growth
// from its most recent entries.
func (s *Service) NetWorthReport(ctx context.Context, userID int64) (*NetWorthReport, error) {
	latest, err := s.repo.Latest(ctx, userID, TypeNetWorth)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListRecent(ctx, userID, TypeNetWorth, historyWindow)
	if err != nil {
		return nil, err
	}

	monthly, yearly := GrowthRates(history)
	report := &NetWorthReport{
		MonthlyGrowth:  monthly,
		YearlyGrowth:   yearly,
		HistoricalData: history,
	}
	if latest != nil {
		report.CurrentNetWorth = latest.Value.InexactFloat64()
	}
	return report, nil
}

func (s *Service) SavingsRateReport(ctx context.Context, userID int64) (*SavingsRateReport, error) {
	latest, err := s.repo.Latest(ctx, userID, TypeSavingsRate)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListRecent(ctx, userID, TypeSavingsRate, historyWindow)
	if err != nil {
		return nil, err
	}

	report := &SavingsRateReport{
		AverageSavingsRate: AverageValue(history),
		HistoricalData:     history,
	}
	if latest != nil {
		report.CurrentSavingsRate = latest.Value.InexactFloat64()
	}
	return report, nil
}

// FIIndexReport computes financial independence progress from the
// latest net worth and freedom number, then writes today's fi_index
// row. The daily upsert keys on (user, type, day), so concurrent
// requests settle on a single row instead of racing into duplicates.
func (s *Service) FIIndexReport(ctx context.Context, userID int64) (*FIIndexReport, error) {
	netWorth, err := s.repo.Latest(ctx, userID, TypeNetWorth)
	if err != nil {
		return nil, err
	}
	freedomNumber, err := s.repo.Latest(ctx, userID, TypeFreedomNumber)
	if err != nil {
		return nil, err
	}

	report := &FIIndexReport{}
	if netWorth != nil {
		report.NetWorth = netWorth.Value.InexactFloat64()
	}
	if freedomNumber != nil {
		report.FreedomNumber = freedomNumber.Value.InexactFloat64()
	}
	report.FIIndex = FIIndex(report.NetWorth, report.FreedomNumber)

	if _, err := Record(ctx, s.repo, userID, TypeFIIndex, decimal.NewFromFloat(report.FIIndex), s.now()); err != nil {
		return nil, fmt.Errorf("recording fi_index: %w", err)
	}

	report.HistoricalData, err = s.repo.ListRecent(ctx, userID, TypeFIIndex, historyWindow)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FreedomNumberReport computes and records a fresh freedom number when
// annualExpenses is supplied, otherwise reports the latest stored one.
func (s *Service) FreedomNumberReport(ctx context.Context, userID int64, annualExpenses *float64, withdrawalRate float64) (*FreedomNumberReport, error) {
	if withdrawalRate <= 0 {
		withdrawalRate = DefaultWithdrawalRate
	}

	report := &FreedomNumberReport{WithdrawalRate: withdrawalRate}
	if annualExpenses != nil {
		report.FreedomNumber = FreedomNumber(*annualExpenses, withdrawalRate)
		if _, err := Record(ctx, s.repo, userID, TypeFreedomNumber, decimal.NewFromFloat(report.FreedomNumber), s.now()); err != nil {
			return nil, fmt.Errorf("recording freedom_number: %w", err)
		}
	} else {
		latest, err := s.repo.Latest(ctx, userID, TypeFreedomNumber)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			report.FreedomNumber = latest.Value.InexactFloat64()
		}
	}

	netWorth, err := s.repo.Latest(ctx, userID, TypeNetWorth)
	if err != nil {
		return nil, err
	}
	if netWorth != nil {
		report.CurrentNetWorth = netWorth.Value.InexactFloat64()
	}
	report.ProgressPercentage = metrics.Rate(report.CurrentNetWorth, report.FreedomNumber)
	return report, nil
}

// HealthScoreReport scores the latest KPIs and appends a health_score
// row. Every invocation writes a new row.
func (s *Service) HealthScoreReport(ctx context.Context, userID int64) (*HealthScoreReport, error) {
	var netWorth, savingsRate, fiIndex float64
	for _, input := range []struct {
		kpiType string
		into    *float64
	}{
		{TypeNetWorth, &netWorth},
		{TypeSavingsRate, &savingsRate},
		{TypeFIIndex, &fiIndex},
	} {
		latest, err := s.repo.Latest(ctx, userID, input.kpiType)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			*input.into = latest.Value.InexactFloat64()
		}
	}

	components, score := HealthComponents(netWorth, savingsRate, fiIndex)
	if _, err := Record(ctx, s.repo, userID, TypeHealthScore, decimal.NewFromFloat(score), s.now()); err != nil {
		return nil, fmt.Errorf("recording health_score: %w", err)
	}

	history, err := s.repo.ListRecent(ctx, userID, TypeHealthScore, historyWindow)
	if err != nil {
		return nil, err
	}
	return &HealthScoreReport{
		HealthScore:    score,
		HealthStatus:   HealthStatus(score),
		Components:     components,
		HistoricalData: history,
	}, nil
}
