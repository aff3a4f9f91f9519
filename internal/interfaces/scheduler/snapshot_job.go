package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/binti59/finance-app/internal/domain/budget"
	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/domain/notification"
)

// KPISnapshotJob recomputes a user's derived KPIs from live assets,
// liabilities and ledger entries so the stored series grow even on
// days the user never opens the app. Each value upserts on today's
// date, so running the job twice a day is harmless.
type KPISnapshotJob struct {
	userID     int64
	kpiService *kpi.Service
}

// NewKPISnapshotJob creates a new KPI snapshot job for a user
func NewKPISnapshotJob(userID int64, kpiService *kpi.Service) *KPISnapshotJob {
	return &KPISnapshotJob{userID: userID, kpiService: kpiService}
}

// Execute records fresh net worth, savings rate and FI index values.
func (j *KPISnapshotJob) Execute(ctx context.Context) error {
	if err := j.kpiService.SnapshotDaily(ctx, j.userID); err != nil {
		return fmt.Errorf("kpi snapshot failed: %w", err)
	}
	return nil
}

// UserID returns the user ID associated with this job
func (j *KPISnapshotJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job
func (j *KPISnapshotJob) Description() string {
	return fmt.Sprintf("KPI snapshot for user %d", j.userID)
}

// BudgetAlertJob checks the user's current-month budget performance and
// pushes a notification for every category that went over budget.
type BudgetAlertJob struct {
	userID              int64
	budgetService       *budget.Service
	notificationService *notification.Service
}

// NewBudgetAlertJob creates a new budget alert job for a user
func NewBudgetAlertJob(userID int64, budgetService *budget.Service, notificationService *notification.Service) *BudgetAlertJob {
	return &BudgetAlertJob{
		userID:              userID,
		budgetService:       budgetService,
		notificationService: notificationService,
	}
}

// Execute sends an over-budget alert per exceeded category. Alert
// delivery respects the user's notification preferences downstream.
func (j *BudgetAlertJob) Execute(ctx context.Context) error {
	report, err := j.budgetService.Performance(ctx, j.userID, "month", nil, nil)
	if err != nil {
		return fmt.Errorf("budget performance check failed: %w", err)
	}

	var failed int
	for _, cat := range report.Categories {
		if cat.Status != "over_budget" {
			continue
		}
		if err := j.notificationService.NotifyOverBudget(ctx, j.userID, cat.CategoryName, cat.Percentage); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to deliver %d over-budget alerts", failed)
	}
	return nil
}

// UserID returns the user ID associated with this job
func (j *BudgetAlertJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job
func (j *BudgetAlertJob) Description() string {
	return fmt.Sprintf("Budget alerts for user %d", j.userID)
}

// DailyJob is a composite job that snapshots KPIs first and then checks
// budget alerts, so alerts always see the freshest data.
type DailyJob struct {
	userID              int64
	kpiService          *kpi.Service
	budgetService       *budget.Service
	notificationService *notification.Service
}

// NewDailyJob creates the composite per-user daily job
func NewDailyJob(userID int64, kpiService *kpi.Service, budgetService *budget.Service, notificationService *notification.Service) *DailyJob {
	return &DailyJob{
		userID:              userID,
		kpiService:          kpiService,
		budgetService:       budgetService,
		notificationService: notificationService,
	}
}

// Execute runs the KPI snapshot first, then budget alerts on success.
func (j *DailyJob) Execute(ctx context.Context) error {
	snapshot := NewKPISnapshotJob(j.userID, j.kpiService)
	if err := snapshot.Execute(ctx); err != nil {
		return fmt.Errorf("kpi snapshot failed, skipping budget alerts: %w", err)
	}

	alerts := NewBudgetAlertJob(j.userID, j.budgetService, j.notificationService)
	if err := alerts.Execute(ctx); err != nil {
		return fmt.Errorf("budget alerts failed: %w", err)
	}

	return nil
}

// UserID returns the user ID associated with this job
func (j *DailyJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job
func (j *DailyJob) Description() string {
	return fmt.Sprintf("Daily snapshot and alerts for user %d", j.userID)
}
