package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/report"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// ReportHandler serves saved report configurations plus on-demand
// generation and export.
type ReportHandler struct {
	reportService *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type CreateReportRequest struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Parameters report.Parameters `json:"parameters"`
}

type UpdateReportRequest struct {
	Name       *string            `json:"name"`
	Type       *string            `json:"type"`
	Parameters *report.Parameters `json:"parameters"`
}

type GenerateReportRequest struct {
	ReportID   string            `json:"report_id"`
	Type       string            `json:"type"`
	Parameters report.Parameters `json:"parameters"`
}

// HandleReports handles the saved report collection (GET list, POST create)
func (h *ReportHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListReports(w, r, userID)
	case http.MethodPost:
		h.handleCreateReport(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ReportHandler) handleListReports(w http.ResponseWriter, r *http.Request, userID int64) {
	reports, err := h.reportService.ListReports(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list reports")
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	if reports == nil {
		reports = []*report.Report{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

func (h *ReportHandler) handleCreateReport(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rep, err := h.reportService.CreateReport(r.Context(), report.CreateParams{
		UserID:     userID,
		Name:       req.Name,
		Type:       req.Type,
		Parameters: req.Parameters,
	})
	if err != nil {
		if err == report.ErrInvalidReportType {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to create report")
		http.Error(w, "Failed to create report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rep)
}

// HandleReportByID handles operations on a specific saved report
func (h *ReportHandler) HandleReportByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reportID := r.PathValue("id")
	if reportID == "" {
		http.Error(w, "Report ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetReport(w, r, userID, reportID)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateReport(w, r, userID, reportID)
	case http.MethodDelete:
		h.handleDeleteReport(w, r, userID, reportID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ReportHandler) handleGetReport(w http.ResponseWriter, r *http.Request, userID int64, reportID string) {
	rep, err := h.reportService.GetReport(r.Context(), reportID, userID)
	if err != nil {
		h.respondReportError(w, err, userID, "failed to get report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (h *ReportHandler) handleUpdateReport(w http.ResponseWriter, r *http.Request, userID int64, reportID string) {
	var req UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rep, err := h.reportService.UpdateReport(r.Context(), reportID, userID, report.UpdateParams{
		Name:       req.Name,
		Type:       req.Type,
		Parameters: req.Parameters,
	})
	if err != nil {
		h.respondReportError(w, err, userID, "failed to update report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (h *ReportHandler) handleDeleteReport(w http.ResponseWriter, r *http.Request, userID int64, reportID string) {
	if err := h.reportService.DeleteReport(r.Context(), reportID, userID); err != nil {
		h.respondReportError(w, err, userID, "failed to delete report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Report deleted successfully"})
}

// HandleGenerate produces report data on demand, from a saved
// configuration (report_id) or inline parameters.
func (h *ReportHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	generated, err := h.reportService.Generate(r.Context(), userID, report.GenerateRequest{
		ReportID:   req.ReportID,
		Type:       req.Type,
		Parameters: req.Parameters,
	})
	if err != nil {
		h.respondReportError(w, err, userID, "failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generated)
}

// HandleExport renders a saved report for download. Accepts
// ?format=json|csv, defaulting to json.
func (h *ReportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reportID := r.PathValue("id")
	if reportID == "" {
		http.Error(w, "Report ID is required", http.StatusBadRequest)
		return
	}

	file, err := h.reportService.Export(r.Context(), reportID, userID, r.URL.Query().Get("format"))
	if err != nil {
		h.respondReportError(w, err, userID, "failed to export report")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Write(file.Data)
}

func (h *ReportHandler) respondReportError(w http.ResponseWriter, err error, userID int64, msg string) {
	switch err {
	case report.ErrReportNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case report.ErrForbidden:
		http.Error(w, err.Error(), http.StatusForbidden)
	case report.ErrInvalidReportType, report.ErrInvalidFormat:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg(msg)
		http.Error(w, "Report operation failed", http.StatusInternalServerError)
	}
}
