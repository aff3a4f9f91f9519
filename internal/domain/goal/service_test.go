package goal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Goal, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*Goal, error)
	ListByUserIDFunc func(ctx context.Context, userID int64, status string) ([]*Goal, error)
	UpdateFunc       func(ctx context.Context, id int64, params UpdateParams) (*Goal, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Goal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64, status string) ([]*Goal, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, status)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Goal, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func TestUpdateProgress_CompletesGoal(t *testing.T) {
	ctx := context.Background()
	stored := &Goal{
		ID: 1, UserID: 1, Name: "Emergency Fund",
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.NewFromInt(9000),
		Status:        StatusActive,
	}

	var gotParams UpdateParams
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*Goal, error) { return stored, nil },
		UpdateFunc: func(ctx context.Context, id int64, params UpdateParams) (*Goal, error) {
			gotParams = params
			updated := *stored
			updated.CurrentAmount = *params.CurrentAmount
			if params.Status != nil {
				updated.Status = *params.Status
			}
			return &updated, nil
		},
	}
	svc := NewService(repo)

	progress, err := svc.UpdateProgress(ctx, 1, 1, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("UpdateProgress() error: %v", err)
	}

	if gotParams.Status == nil || *gotParams.Status != StatusCompleted {
		t.Error("expected goal to be marked completed when target is reached")
	}
	if progress.ProgressPercentage != 100 {
		t.Errorf("progress = %v, want 100", progress.ProgressPercentage)
	}
}

func TestUpdateProgress_BelowTarget(t *testing.T) {
	ctx := context.Background()
	stored := &Goal{
		ID: 1, UserID: 1,
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.NewFromInt(1000),
		Status:        StatusActive,
	}
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*Goal, error) { return stored, nil },
		UpdateFunc: func(ctx context.Context, id int64, params UpdateParams) (*Goal, error) {
			if params.Status != nil {
				t.Error("status must not change below target")
			}
			updated := *stored
			updated.CurrentAmount = *params.CurrentAmount
			return &updated, nil
		},
	}
	svc := NewService(repo)

	progress, err := svc.UpdateProgress(ctx, 1, 1, decimal.NewFromInt(2500))
	if err != nil {
		t.Fatalf("UpdateProgress() error: %v", err)
	}
	if progress.ProgressPercentage != 25 {
		t.Errorf("progress = %v, want 25", progress.ProgressPercentage)
	}
}

func TestGetGoal_Ownership(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*Goal, error) {
			return &Goal{ID: 1, UserID: 2}, nil
		},
	}
	svc := NewService(repo)

	if _, err := svc.GetGoal(context.Background(), 1, 1); err != ErrForbidden {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestRecommendations_SkipsCoveredCategories(t *testing.T) {
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64, status string) ([]*Goal, error) {
			if status != StatusActive {
				t.Errorf("status filter = %q, want active", status)
			}
			return []*Goal{
				{ID: 1, Category: "emergency_fund", Status: StatusActive},
				{ID: 2, Category: "vacation", Status: StatusActive},
			}, nil
		},
	}
	svc := NewService(repo)

	recs, err := svc.Recommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}

	if len(recs) != len(commonGoals)-2 {
		t.Fatalf("expected %d recommendations, got %d", len(commonGoals)-2, len(recs))
	}
	for _, r := range recs {
		if r.Category == "emergency_fund" || r.Category == "vacation" {
			t.Errorf("covered category %q should not be recommended", r.Category)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Priority < recs[i-1].Priority {
			t.Errorf("recommendations out of priority order at %d", i)
		}
	}
}
