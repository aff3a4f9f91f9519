package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/goal"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// GoalHandler serves the goal CRUD, progress and recommendation
// endpoints.
type GoalHandler struct {
	goalService *goal.Service
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *goal.Service) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type UpdateProgressRequest struct {
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

// HandleGoals handles the goal collection (GET list, POST create).
// List accepts an optional ?status= filter.
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListGoals(w, r, userID)
	case http.MethodPost:
		h.handleCreateGoal(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *GoalHandler) handleListGoals(w http.ResponseWriter, r *http.Request, userID int64) {
	goals, err := h.goalService.ListGoals(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeGoalError(w, err, userID)
		return
	}

	if goals == nil {
		goals = []*goal.Goal{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

func (h *GoalHandler) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID int64) {
	var params goal.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params.UserID = userID

	g, err := h.goalService.CreateGoal(r.Context(), params)
	if err != nil {
		writeGoalError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(g)
}

// HandleGoalByID handles operations on a specific goal
func (h *GoalHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetGoal(w, r, userID, id)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateGoal(w, r, userID, id)
	case http.MethodDelete:
		h.handleDeleteGoal(w, r, userID, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *GoalHandler) handleGetGoal(w http.ResponseWriter, r *http.Request, userID, id int64) {
	g, err := h.goalService.GetGoal(r.Context(), id, userID)
	if err != nil {
		writeGoalError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

func (h *GoalHandler) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID, id int64) {
	var params goal.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.goalService.UpdateGoal(r.Context(), id, userID, params)
	if err != nil {
		writeGoalError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

func (h *GoalHandler) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID, id int64) {
	if err := h.goalService.DeleteGoal(r.Context(), id, userID); err != nil {
		writeGoalError(w, err, userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleProgress updates a goal's saved amount and reports the new
// completion percentage. Reaching the target flips the goal to
// completed automatically.
func (h *GoalHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	progress, err := h.goalService.UpdateProgress(r.Context(), id, userID, req.CurrentAmount)
	if err != nil {
		writeGoalError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progress)
}

// HandleRecommendations lists common goals the user has not set up yet.
func (h *GoalHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recs, err := h.goalService.Recommendations(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build goal recommendations")
		http.Error(w, "Failed to build recommendations", http.StatusInternalServerError)
		return
	}

	if recs == nil {
		recs = []goal.Recommendation{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

func writeGoalError(w http.ResponseWriter, err error, userID int64) {
	switch err {
	case goal.ErrGoalNotFound:
		http.Error(w, "Goal not found", http.StatusNotFound)
	case goal.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case goal.ErrInvalidStatus, goal.ErrInvalidTarget, goal.ErrNameRequired:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("goal operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
