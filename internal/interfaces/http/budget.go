package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/budget"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// BudgetHandler serves the budget CRUD, performance and recommendation
// endpoints.
type BudgetHandler struct {
	budgetService *budget.Service
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *budget.Service) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// HandleBudgets handles the budget collection (GET list, POST create)
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListBudgets(w, r, userID)
	case http.MethodPost:
		h.handleCreateBudget(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleListBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	budgets, err := h.budgetService.ListBudgets(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list budgets")
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	if budgets == nil {
		budgets = []*budget.Budget{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

func (h *BudgetHandler) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	var params budget.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params.UserID = userID

	b, err := h.budgetService.CreateBudget(r.Context(), params)
	if err != nil {
		writeBudgetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

// HandleBudgetByID handles operations on a specific budget
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Budget ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetBudget(w, r, userID, id)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateBudget(w, r, userID, id)
	case http.MethodDelete:
		h.handleDeleteBudget(w, r, userID, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleGetBudget(w http.ResponseWriter, r *http.Request, userID, id int64) {
	b, err := h.budgetService.GetBudget(r.Context(), id, userID)
	if err != nil {
		writeBudgetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

func (h *BudgetHandler) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID, id int64) {
	var params budget.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := h.budgetService.UpdateBudget(r.Context(), id, userID, params)
	if err != nil {
		writeBudgetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

func (h *BudgetHandler) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID, id int64) {
	if err := h.budgetService.DeleteBudget(r.Context(), id, userID); err != nil {
		writeBudgetError(w, err, userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePerformance compares active budgets against recorded spending
// over a period. Accepts ?period=week|month|quarter|year|custom with
// start_date/end_date for custom windows.
func (h *BudgetHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	period := r.URL.Query().Get("period")
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

	report, err := h.budgetService.Performance(r.Context(), userID, period, start, end)
	if err != nil {
		writeBudgetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// HandleRecommendations suggests budget amounts from recent spending in
// categories that have no budget yet.
func (h *BudgetHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recs, err := h.budgetService.Recommendations(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build budget recommendations")
		http.Error(w, "Failed to build recommendations", http.StatusInternalServerError)
		return
	}

	if recs == nil {
		recs = []budget.Recommendation{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

func writeBudgetError(w http.ResponseWriter, err error, userID int64) {
	switch err {
	case budget.ErrBudgetNotFound:
		http.Error(w, "Budget not found", http.StatusNotFound)
	case budget.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case budget.ErrDuplicateBudget:
		http.Error(w, err.Error(), http.StatusConflict)
	case budget.ErrInvalidAmount, budget.ErrInvalidPeriod, budget.ErrInvalidCategory:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("budget operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
