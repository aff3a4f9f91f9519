package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/binti59/finance-app/internal/domain/report"
)

// ReportRepository implements the report.Repository interface for
// PostgreSQL. Parameters live in a jsonb column since their shape is
// free-form per report type.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, name, type, parameters, created_at, updated_at`

// Create saves a new report configuration
func (r *ReportRepository) Create(ctx context.Context, id string, params report.CreateParams) (*report.Report, error) {
	parameters, err := json.Marshal(params.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report parameters: %w", err)
	}

	query := `
		INSERT INTO reports (id, user_id, name, type, parameters)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reportColumns

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id, params.UserID, params.Name, params.Type, parameters))
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return rep, nil
}

// GetByID retrieves a report by its ID. Returns (nil, nil) when no
// report exists.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

// ListByUserID retrieves all saved reports for a specific user
func (r *ReportRepository) ListByUserID(ctx context.Context, userID int64) ([]*report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// Update applies partial updates to a saved report
func (r *ReportRepository) Update(ctx context.Context, id string, params report.UpdateParams) (*report.Report, error) {
	var parameters []byte
	if params.Parameters != nil {
		encoded, err := json.Marshal(params.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report parameters: %w", err)
		}
		parameters = encoded
	}

	query := `
		UPDATE reports
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    parameters = COALESCE($4, parameters),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + reportColumns

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id, params.Name, params.Type, parameters))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return rep, nil
}

// Delete removes a saved report
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func scanReport(row scanner) (*report.Report, error) {
	var rep report.Report
	var parameters []byte
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.Name, &rep.Type, &parameters, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	if len(parameters) > 0 {
		if err := json.Unmarshal(parameters, &rep.Parameters); err != nil {
			return nil, fmt.Errorf("failed to decode report parameters: %w", err)
		}
	}
	return &rep, nil
}
