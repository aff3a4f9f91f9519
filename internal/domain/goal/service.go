package goal

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/metrics"
)

// commonGoals is the static catalogue behind goal recommendations.
var commonGoals = []Recommendation{
	{Name: "Emergency Fund", Category: "emergency_fund", Description: "Save 3-6 months of living expenses for emergencies", Priority: 1},
	{Name: "Debt Payoff", Category: "debt_payoff", Description: "Pay off high-interest debt", Priority: 1},
	{Name: "Retirement Savings", Category: "retirement", Description: "Save for retirement through pension or investment accounts", Priority: 2},
	{Name: "Home Purchase", Category: "home_purchase", Description: "Save for a down payment on a home", Priority: 2},
	{Name: "Financial Independence", Category: "financial_independence", Description: "Save enough to achieve financial independence", Priority: 2},
	{Name: "Education Fund", Category: "education", Description: "Save for education expenses", Priority: 3},
	{Name: "New Car Fund", Category: "car_purchase", Description: "Save for your next vehicle purchase", Priority: 3},
	{Name: "Vacation Fund", Category: "vacation", Description: "Save for your next vacation", Priority: 4},
}

// Service handles goal business logic
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateGoal(ctx context.Context, params CreateParams) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if params.Status == "" {
		params.Status = StatusActive
	}
	if params.Priority == 0 {
		params.Priority = 1
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetGoal(ctx context.Context, id, userID int64) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return g, nil
}

func (s *Service) ListGoals(ctx context.Context, userID int64, status string) ([]*Goal, error) {
	if status != "" && !statuses[status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListByUserID(ctx, userID, status)
}

func (s *Service) UpdateGoal(ctx context.Context, id, userID int64, params UpdateParams) (*Goal, error) {
	if _, err := s.GetGoal(ctx, id, userID); err != nil {
		return nil, err
	}
	if params.TargetAmount != nil && !params.TargetAmount.IsPositive() {
		return nil, ErrInvalidTarget
	}
	if params.Status != nil && !statuses[*params.Status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteGoal(ctx context.Context, id, userID int64) error {
	if _, err := s.GetGoal(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateProgress sets the goal's current amount and marks the goal
// completed once it reaches the target.
func (s *Service) UpdateProgress(ctx context.Context, id, userID int64, currentAmount decimal.Decimal) (*Progress, error) {
	g, err := s.GetGoal(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	params := UpdateParams{CurrentAmount: &currentAmount}
	if currentAmount.GreaterThanOrEqual(g.TargetAmount) {
		completed := StatusCompleted
		params.Status = &completed
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("updating goal progress: %w", err)
	}
	return &Progress{
		Goal:               updated,
		ProgressPercentage: metrics.Percentage(updated.CurrentAmount, updated.TargetAmount),
	}, nil
}

// Recommendations returns the common goals the user has no active goal
// for, most important first.
func (s *Service) Recommendations(ctx context.Context, userID int64) ([]Recommendation, error) {
	active, err := s.repo.ListByUserID(ctx, userID, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("listing active goals: %w", err)
	}

	covered := make(map[string]bool, len(active))
	for _, g := range active {
		covered[g.Category] = true
	}

	recommendations := make([]Recommendation, 0, len(commonGoals))
	for _, r := range commonGoals {
		if !covered[r.Category] {
			recommendations = append(recommendations, r)
		}
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority < recommendations[j].Priority
	})
	return recommendations, nil
}
