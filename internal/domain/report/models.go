package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// reportTypes lists the configurations a report can be saved with.
// "custom" is storable for hand-built report configs but has no
// generator behind it.
var reportTypes = map[string]struct{}{
	"income":     {},
	"expense":    {},
	"net_worth":  {},
	"investment": {},
	"budget":     {},
	"tax":        {},
	"custom":     {},
}

var exportFormats = map[string]struct{}{
	"json": {},
	"csv":  {},
}

// Domain errors
var (
	ErrReportNotFound    = errors.New("report not found")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidFormat     = errors.New("invalid export format")
)

// Report is a saved report configuration: which data to aggregate,
// over which window, bucketed how. Generation happens on demand.
type Report struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"user_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Parameters Parameters `json:"parameters"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Parameters narrows what a generated report covers. Zero values fall
// back to year-to-date, grouped by month.
type Parameters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	GroupBy   string     `json:"group_by,omitempty"`
}

// CreateParams contains parameters for saving a report configuration
type CreateParams struct {
	UserID     int64
	Name       string
	Type       string
	Parameters Parameters
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("report name is required")
	}
	if _, ok := reportTypes[p.Type]; !ok {
		return ErrInvalidReportType
	}
	return nil
}

// UpdateParams contains the optional fields for updating a report
type UpdateParams struct {
	Name       *string
	Type       *string
	Parameters *Parameters
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("report name cannot be empty")
	}
	if p.Type != nil {
		if _, ok := reportTypes[*p.Type]; !ok {
			return ErrInvalidReportType
		}
	}
	return nil
}

// GenerateRequest describes an on-demand generation: either a saved
// report by ID, or an inline type plus parameters.
type GenerateRequest struct {
	ReportID   string
	Type       string
	Parameters Parameters
}

// Generated is a produced report: the resolved configuration plus the
// aggregated data for it.
type Generated struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	GroupBy     string    `json:"group_by"`
	GeneratedAt time.Time `json:"generated_at"`
	Data        any       `json:"data"`
}

// TaxSummary totals the year's income and expenses for tax filing.
type TaxSummary struct {
	Year          int             `json:"year"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Net           decimal.Decimal `json:"net"`
}

// ExportFile is a generated report rendered for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
