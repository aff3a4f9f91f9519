package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/insights"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// InsightsHandler serves the dashboard, summary, cashflow and expense
// breakdown endpoints.
type InsightsHandler struct {
	insightsService *insights.Service
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService *insights.Service) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

// HandleDashboard returns the combined dashboard summary.
func (h *InsightsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.insightsService.Dashboard(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build dashboard")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleSummary returns current-month totals against balances and debt.
func (h *InsightsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.insightsService.Summary(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build financial summary")
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleCashflow returns income and expense totals bucketed by day,
// week or month. Accepts ?granularity=, ?start_date= and ?end_date=.
func (h *InsightsHandler) HandleCashflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	start, ok := dateParam(r, "start_date")
	if !ok {
		http.Error(w, "Invalid start date", http.StatusBadRequest)
		return
	}
	end, ok := dateParam(r, "end_date")
	if !ok {
		http.Error(w, "Invalid end date", http.StatusBadRequest)
		return
	}

	points, err := h.insightsService.Cashflow(r.Context(), userID, r.URL.Query().Get("granularity"), start, end)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build cashflow")
		http.Error(w, "Failed to build cashflow", http.StatusInternalServerError)
		return
	}

	if points == nil {
		points = []insights.CashflowPoint{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(points)
}

// HandleExpenseBreakdown returns expense totals grouped by category for
// a period. Accepts ?period=month|quarter|year|custom with
// start_date/end_date for custom windows.
func (h *InsightsHandler) HandleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	start, ok := dateParam(r, "start_date")
	if !ok {
		http.Error(w, "Invalid start date", http.StatusBadRequest)
		return
	}
	end, ok := dateParam(r, "end_date")
	if !ok {
		http.Error(w, "Invalid end date", http.StatusBadRequest)
		return
	}

	breakdown, err := h.insightsService.ExpenseBreakdown(r.Context(), userID, r.URL.Query().Get("period"), start, end)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build expense breakdown")
		http.Error(w, "Failed to build expense breakdown", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(breakdown)
}
