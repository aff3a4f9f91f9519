package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// LiabilityHandler serves the liability CRUD and debt summary endpoints.
type LiabilityHandler struct {
	liabilityService *liability.Service
}

// NewLiabilityHandler creates a new liability handler
func NewLiabilityHandler(liabilityService *liability.Service) *LiabilityHandler {
	return &LiabilityHandler{liabilityService: liabilityService}
}

// HandleLiabilities handles the liability collection (GET list, POST create)
func (h *LiabilityHandler) HandleLiabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListLiabilities(w, r, userID)
	case http.MethodPost:
		h.handleCreateLiability(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LiabilityHandler) handleListLiabilities(w http.ResponseWriter, r *http.Request, userID int64) {
	liabilities, err := h.liabilityService.ListLiabilities(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list liabilities")
		http.Error(w, "Failed to list liabilities", http.StatusInternalServerError)
		return
	}

	if liabilities == nil {
		liabilities = []*liability.Liability{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(liabilities)
}

func (h *LiabilityHandler) handleCreateLiability(w http.ResponseWriter, r *http.Request, userID int64) {
	var params liability.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params.UserID = userID

	l, err := h.liabilityService.CreateLiability(r.Context(), params)
	if err != nil {
		writeLiabilityError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(l)
}

// HandleLiabilityByID handles operations on a specific liability
func (h *LiabilityHandler) HandleLiabilityByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Liability ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetLiability(w, r, userID, id)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateLiability(w, r, userID, id)
	case http.MethodDelete:
		h.handleDeleteLiability(w, r, userID, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LiabilityHandler) handleGetLiability(w http.ResponseWriter, r *http.Request, userID, id int64) {
	l, err := h.liabilityService.GetLiability(r.Context(), id, userID)
	if err != nil {
		writeLiabilityError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(l)
}

func (h *LiabilityHandler) handleUpdateLiability(w http.ResponseWriter, r *http.Request, userID, id int64) {
	var params liability.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	l, err := h.liabilityService.UpdateLiability(r.Context(), id, userID, params)
	if err != nil {
		writeLiabilityError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(l)
}

func (h *LiabilityHandler) handleDeleteLiability(w http.ResponseWriter, r *http.Request, userID, id int64) {
	if err := h.liabilityService.DeleteLiability(r.Context(), id, userID); err != nil {
		writeLiabilityError(w, err, userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSummary reports total debt by type plus a year-by-year payoff
// projection at current payment rates.
func (h *LiabilityHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.liabilityService.DebtSummary(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build debt summary")
		http.Error(w, "Failed to build debt summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func writeLiabilityError(w http.ResponseWriter, err error, userID int64) {
	switch err {
	case liability.ErrLiabilityNotFound:
		http.Error(w, "Liability not found", http.StatusNotFound)
	case liability.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case liability.ErrInvalidType, liability.ErrInvalidAmount, liability.ErrInvalidFrequency, liability.ErrNameRequired:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("liability operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
