package liability

import (
	"context"
	"fmt"
	"sort"
)

// Payoff simulation bounds and monthly-equivalent multipliers. 4.33 and
// 2.17 are average weeks and fortnights per month.
const (
	maxProjectionMonths = 360
	weeksPerMonth       = 4.33
	biWeeksPerMonth     = 2.17
)

// Service handles liability business logic
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateLiability(ctx context.Context, params CreateParams) (*Liability, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetLiability(ctx context.Context, id, userID int64) (*Liability, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLiabilityNotFound
	}
	if l.UserID != userID {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *Service) ListLiabilities(ctx context.Context, userID int64) ([]*Liability, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *Service) UpdateLiability(ctx context.Context, id, userID int64, params UpdateParams) (*Liability, error) {
	if _, err := s.GetLiability(ctx, id, userID); err != nil {
		return nil, err
	}
	if params.Type != nil && !liabilityTypes[*params.Type] {
		return nil, ErrInvalidType
	}
	if params.Amount != nil && params.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if params.PaymentFrequency != nil && !paymentFrequencies[*params.PaymentFrequency] {
		return nil, ErrInvalidFrequency
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteLiability(ctx context.Context, id, userID int64) error {
	if _, err := s.GetLiability(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DebtSummary aggregates the user's debt by type, derives the weighted
// average interest rate and monthly payment load, and simulates payoff.
func (s *Service) DebtSummary(ctx context.Context, userID int64) (*Summary, error) {
	liabilities, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing liabilities: %w", err)
	}

	byType := summarizeByType(liabilities)

	summary := &Summary{DebtByType: byType}
	for _, t := range byType {
		summary.TotalDebt = summary.TotalDebt.Add(t.TotalAmount)
	}

	totalDebt := summary.TotalDebt.InexactFloat64()
	if totalDebt > 0 {
		weighted := 0.0
		for _, t := range byType {
			weighted += t.TotalAmount.InexactFloat64() * t.AvgInterestRate
		}
		summary.WeightedInterestRate = weighted / totalDebt
	}

	summary.MonthlyPaymentTotal = monthlyPaymentTotal(liabilities)
	summary.PayoffProjections = projectPayoff(totalDebt, summary.WeightedInterestRate, summary.MonthlyPaymentTotal)
	return summary, nil
}

func summarizeByType(liabilities []*Liability) []TypeSummary {
	type bucket struct {
		summary   TypeSummary
		rateSum   float64
		rateCount int
	}
	buckets := make(map[string]*bucket)
	for _, l := range liabilities {
		b, ok := buckets[l.Type]
		if !ok {
			b = &bucket{summary: TypeSummary{Type: l.Type}}
			buckets[l.Type] = b
		}
		b.summary.TotalAmount = b.summary.TotalAmount.Add(l.Amount)
		b.summary.Count++
		if l.InterestRate != nil {
			b.rateSum += *l.InterestRate
			b.rateCount++
		}
	}

	result := make([]TypeSummary, 0, len(buckets))
	for _, b := range buckets {
		if b.rateCount > 0 {
			b.summary.AvgInterestRate = b.rateSum / float64(b.rateCount)
		}
		result = append(result, b.summary)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TotalAmount.GreaterThan(result[j].TotalAmount)
	})
	return result
}

func monthlyPaymentTotal(liabilities []*Liability) float64 {
	total := 0.0
	for _, l := range liabilities {
		if l.PaymentAmount == nil {
			continue
		}
		payment := l.PaymentAmount.InexactFloat64()
		frequency := FrequencyMonthly
		if l.PaymentFrequency != nil {
			frequency = *l.PaymentFrequency
		}
		switch frequency {
		case FrequencyWeekly:
			total += payment * weeksPerMonth
		case FrequencyBiWeekly:
			total += payment * biWeeksPerMonth
		case FrequencyQuarterly:
			total += payment / 3
		case FrequencyAnnually:
			total += payment / 12
		default:
			total += payment
		}
	}
	return total
}

// projectPayoff runs a fixed-payment simulation against the whole debt:
// interest accrues monthly at annualRate/12, the payment never exceeds
// what is owed, and a snapshot is recorded every twelve months plus the
// month the debt clears. The run is capped at thirty years. No payment
// means no projection.
func projectPayoff(totalDebt, annualRate, monthlyPayment float64) []ProjectionPoint {
	projections := []ProjectionPoint{}
	if monthlyPayment <= 0 {
		return projections
	}

	remaining := totalDebt
	month := 0
	for remaining > 0 && month < maxProjectionMonths {
		month++

		interest := (remaining * (annualRate / 100)) / 12
		payment := monthlyPayment
		if owed := remaining + interest; payment > owed {
			payment = owed
		}
		remaining = remaining + interest - payment

		if month%12 == 0 || remaining <= 0 {
			point := ProjectionPoint{
				Month:         month,
				Year:          month / 12,
				RemainingDebt: remaining,
				TotalPaid:     float64(month) * monthlyPayment,
			}
			if point.RemainingDebt < 0 {
				point.RemainingDebt = 0
			}
			projections = append(projections, point)
		}
	}
	return projections
}
