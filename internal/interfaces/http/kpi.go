package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// KPIHandler serves the stored KPI series and the financial indicator
// reports.
type KPIHandler struct {
	kpiService *kpi.Service
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(kpiService *kpi.Service) *KPIHandler {
	return &KPIHandler{kpiService: kpiService}
}

// HandleKPIs lists stored KPI values. Accepts ?type=, ?start_date= and
// ?end_date= filters.
func (h *KPIHandler) HandleKPIs(w http.ResponseWriter, r *http.Request) {
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

	kpis, err := h.kpiService.ListKPIs(r.Context(), userID, kpi.Filter{
		Type:      r.URL.Query().Get("type"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		if err == kpi.ErrInvalidKPIType {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list kpis")
		http.Error(w, "Failed to list KPIs", http.StatusInternalServerError)
		return
	}

	if kpis == nil {
		kpis = []*kpi.KPI{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(kpis)
}

// HandleNetWorth reports current net worth with growth rates and a
// recent history.
func (h *KPIHandler) HandleNetWorth(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "net worth", func(r *http.Request, userID int64) (any, error) {
		return h.kpiService.NetWorthReport(r.Context(), userID)
	})
}

// HandleSavingsRate reports the monthly savings rate.
func (h *KPIHandler) HandleSavingsRate(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "savings rate", func(r *http.Request, userID int64) (any, error) {
		return h.kpiService.SavingsRateReport(r.Context(), userID)
	})
}

// HandleFIIndex reports progress toward financial independence.
func (h *KPIHandler) HandleFIIndex(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "fi index", func(r *http.Request, userID int64) (any, error) {
		return h.kpiService.FIIndexReport(r.Context(), userID)
	})
}

// HandleFreedomNumber reports the savings target implied by annual
// expenses and a safe withdrawal rate. Accepts ?annual_expenses= and
// ?withdrawal_rate=.
func (h *KPIHandler) HandleFreedomNumber(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "freedom number", func(r *http.Request, userID int64) (any, error) {
		var rate float64
		if f := floatParam(r, "withdrawal_rate"); f != nil {
			rate = *f
		}
		return h.kpiService.FreedomNumberReport(r.Context(), userID, floatParam(r, "annual_expenses"), rate)
	})
}

// HandleHealthScore reports the composite financial health score.
func (h *KPIHandler) HandleHealthScore(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "health score", func(r *http.Request, userID int64) (any, error) {
		return h.kpiService.HealthScoreReport(r.Context(), userID)
	})
}

func (h *KPIHandler) report(w http.ResponseWriter, r *http.Request, name string, build func(*http.Request, int64) (any, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := build(r, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("report", name).Msg("failed to build kpi report")
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
