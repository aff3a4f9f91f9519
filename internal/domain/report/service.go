package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/budget"
	"github.com/binti59/finance-app/internal/domain/insights"
	"github.com/binti59/finance-app/internal/domain/kpi"
)

// The generators pull their numbers from the services that already own
// each aggregation, so a generated report always matches what the
// matching dashboard endpoint would show.
type KPISource interface {
	NetWorthReport(ctx context.Context, userID int64) (*kpi.NetWorthReport, error)
}

type BudgetSource interface {
	Performance(ctx context.Context, userID int64, period string, customStart, customEnd *time.Time) (*budget.PerformanceReport, error)
}

type AssetSource interface {
	PerformanceReport(ctx context.Context, userID int64) ([]asset.Performance, error)
}

type InsightsSource interface {
	Cashflow(ctx context.Context, userID int64, granularity string, start, end *time.Time) ([]insights.CashflowPoint, error)
	ExpenseBreakdown(ctx context.Context, userID int64, period string, customStart, customEnd *time.Time) (*insights.ExpenseBreakdown, error)
}

// Service handles saved report configurations and report generation
type Service struct {
	repo     Repository
	kpis     KPISource
	budgets  BudgetSource
	assets   AssetSource
	insights InsightsSource
	now      func() time.Time
}

func NewService(repo Repository, kpis KPISource, budgets BudgetSource, assets AssetSource, insightsSource InsightsSource) *Service {
	return &Service{
		repo:     repo,
		kpis:     kpis,
		budgets:  budgets,
		assets:   assets,
		insights: insightsSource,
		now:      time.Now,
	}
}

// CreateReport saves a new report configuration
func (s *Service) CreateReport(ctx context.Context, params CreateParams) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, uuid.NewString(), params)
}

// GetReport retrieves a saved report by ID and verifies user ownership
func (s *Service) GetReport(ctx context.Context, reportID string, userID int64) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	if rep.UserID != userID {
		return nil, ErrForbidden
	}
	return rep, nil
}

// ListReports retrieves all saved reports for a specific user
func (s *Service) ListReports(ctx context.Context, userID int64) ([]*Report, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateReport applies partial updates after verifying ownership
func (s *Service) UpdateReport(ctx context.Context, reportID string, userID int64, params UpdateParams) (*Report, error) {
	if _, err := s.GetReport(ctx, reportID, userID); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, reportID, params)
}

// DeleteReport deletes a saved report after verifying ownership
func (s *Service) DeleteReport(ctx context.Context, reportID string, userID int64) error {
	if _, err := s.GetReport(ctx, reportID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reportID)
}

// Generate produces report data for either a saved configuration
// (req.ReportID) or an inline one. Missing parameters fall back to an
// expense report over the year to date, grouped by month. "custom"
// configurations can be saved but carry no generator, so generating
// one fails with ErrInvalidReportType.
func (s *Service) Generate(ctx context.Context, userID int64, req GenerateRequest) (*Generated, error) {
	name := "Financial Report"
	reportType := req.Type
	params := req.Parameters

	if req.ReportID != "" {
		saved, err := s.GetReport(ctx, req.ReportID, userID)
		if err != nil {
			return nil, err
		}
		name = saved.Name
		reportType = saved.Type
		params = saved.Parameters
	}

	now := s.now()
	if reportType == "" {
		reportType = "expense"
	}
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := now
	if params.StartDate != nil {
		start = *params.StartDate
	}
	if params.EndDate != nil {
		end = *params.EndDate
	}
	groupBy := params.GroupBy
	if groupBy == "" {
		groupBy = "month"
	}

	data, err := s.generate(ctx, userID, reportType, start, end, groupBy)
	if err != nil {
		return nil, err
	}
	return &Generated{
		Name:        name,
		Type:        reportType,
		StartDate:   start,
		EndDate:     end,
		GroupBy:     groupBy,
		GeneratedAt: now,
		Data:        data,
	}, nil
}

func (s *Service) generate(ctx context.Context, userID int64, reportType string, start, end time.Time, groupBy string) (any, error) {
	switch reportType {
	case "income":
		return s.insights.Cashflow(ctx, userID, granularity(groupBy), &start, &end)
	case "expense":
		return s.insights.ExpenseBreakdown(ctx, userID, "custom", &start, &end)
	case "net_worth":
		return s.kpis.NetWorthReport(ctx, userID)
	case "investment":
		return s.assets.PerformanceReport(ctx, userID)
	case "budget":
		return s.budgets.Performance(ctx, userID, "custom", &start, &end)
	case "tax":
		return s.taxSummary(ctx, userID, start, end)
	default:
		return nil, ErrInvalidReportType
	}
}

func (s *Service) taxSummary(ctx context.Context, userID int64, start, end time.Time) (*TaxSummary, error) {
	points, err := s.insights.Cashflow(ctx, userID, "yearly", &start, &end)
	if err != nil {
		return nil, err
	}
	summary := &TaxSummary{Year: start.Year()}
	for _, p := range points {
		summary.TotalIncome = summary.TotalIncome.Add(p.Income)
		summary.TotalExpenses = summary.TotalExpenses.Add(p.Expenses)
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

// granularity maps a report group_by to a cashflow bucket size.
func granularity(groupBy string) string {
	switch groupBy {
	case "week":
		return "weekly"
	case "quarter":
		return "quarterly"
	case "year":
		return "yearly"
	default:
		return "monthly"
	}
}

// Export generates a saved report and renders it for download as json
// or csv.
func (s *Service) Export(ctx context.Context, reportID string, userID int64, format string) (*ExportFile, error) {
	if format == "" {
		format = "json"
	}
	if _, ok := exportFormats[format]; !ok {
		return nil, ErrInvalidFormat
	}

	generated, err := s.Generate(ctx, userID, GenerateRequest{ReportID: reportID})
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename: fmt.Sprintf("%s_%s.%s",
			strings.ReplaceAll(strings.ToLower(generated.Name), " ", "_"),
			generated.GeneratedAt.Format("2006-01-02"), format),
	}
	switch format {
	case "json":
		file.ContentType = "application/json"
		file.Data, err = json.MarshalIndent(generated, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
	case "csv":
		file.ContentType = "text/csv"
		file.Data, err = renderCSV(generated)
		if err != nil {
			return nil, err
		}
	}
	return file, nil
}

// renderCSV flattens the generated data into rows. Every generatable
// type has a tabular shape.
func renderCSV(generated *Generated) ([]byte, error) {
	var rows [][]string
	switch data := generated.Data.(type) {
	case []insights.CashflowPoint:
		rows = append(rows, []string{"period", "income", "expenses", "net"})
		for _, p := range data {
			rows = append(rows, []string{p.Period, p.Income.String(), p.Expenses.String(), p.Net.String()})
		}
	case *insights.ExpenseBreakdown:
		rows = append(rows, []string{"category", "amount", "count", "percentage"})
		for _, e := range data.Breakdown {
			rows = append(rows, []string{
				e.CategoryName, e.Amount.String(),
				strconv.Itoa(e.Count), formatFloat(e.Percentage),
			})
		}
	case *kpi.NetWorthReport:
		rows = append(rows, []string{"date", "net_worth"})
		for _, point := range data.HistoricalData {
			rows = append(rows, []string{point.Date.Format("2006-01-02"), point.Value.String()})
		}
	case []asset.Performance:
		rows = append(rows, []string{"name", "type", "acquisition_value", "current_value", "absolute_return", "percentage_return", "annualized_return"})
		for _, p := range data {
			rows = append(rows, []string{
				p.Name, p.Type,
				formatFloat(p.AcquisitionValue), formatFloat(p.CurrentValue),
				formatFloat(p.AbsoluteReturn), formatFloat(p.PercentageReturn),
				formatFloat(p.AnnualizedReturn),
			})
		}
	case *budget.PerformanceReport:
		rows = append(rows, []string{"category", "budgeted", "spent", "remaining", "percentage", "status"})
		for _, c := range data.Categories {
			rows = append(rows, []string{
				c.CategoryName, c.Budgeted.String(), c.Spent.String(),
				c.Remaining.String(), formatFloat(c.Percentage), c.Status,
			})
		}
	case *TaxSummary:
		rows = append(rows, []string{"year", "total_income", "total_expenses", "net"})
		rows = append(rows, []string{
			strconv.Itoa(data.Year), data.TotalIncome.String(),
			data.TotalExpenses.String(), data.Net.String(),
		})
	default:
		return nil, fmt.Errorf("no csv layout for %s report", generated.Type)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
