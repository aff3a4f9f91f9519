package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// AssetHandler serves the asset CRUD, performance and allocation
// endpoints.
type AssetHandler struct {
	assetService *asset.Service
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *asset.Service) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// HandleAssets handles the asset collection (GET list, POST create)
func (h *AssetHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListAssets(w, r, userID)
	case http.MethodPost:
		h.handleCreateAsset(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetHandler) handleListAssets(w http.ResponseWriter, r *http.Request, userID int64) {
	assets, err := h.assetService.ListAssets(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list assets")
		http.Error(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}

	if assets == nil {
		assets = []*asset.Asset{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

func (h *AssetHandler) handleCreateAsset(w http.ResponseWriter, r *http.Request, userID int64) {
	var params asset.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	params.UserID = userID

	a, err := h.assetService.CreateAsset(r.Context(), params)
	if err != nil {
		writeAssetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

// HandleAssetByID handles operations on a specific asset
func (h *AssetHandler) HandleAssetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetAsset(w, r, userID, id)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateAsset(w, r, userID, id)
	case http.MethodDelete:
		h.handleDeleteAsset(w, r, userID, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetHandler) handleGetAsset(w http.ResponseWriter, r *http.Request, userID, id int64) {
	a, err := h.assetService.GetAsset(r.Context(), id, userID)
	if err != nil {
		writeAssetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *AssetHandler) handleUpdateAsset(w http.ResponseWriter, r *http.Request, userID, id int64) {
	var params asset.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.assetService.UpdateAsset(r.Context(), id, userID, params)
	if err != nil {
		writeAssetError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *AssetHandler) handleDeleteAsset(w http.ResponseWriter, r *http.Request, userID, id int64) {
	if err := h.assetService.DeleteAsset(r.Context(), id, userID); err != nil {
		writeAssetError(w, err, userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePerformance reports per-asset returns since acquisition for
// assets with acquisition data.
func (h *AssetHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := h.assetService.PerformanceReport(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build asset performance report")
		http.Error(w, "Failed to build performance report", http.StatusInternalServerError)
		return
	}

	if report == nil {
		report = []asset.Performance{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// HandleAllocation reports portfolio value grouped by asset type.
func (h *AssetHandler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := h.assetService.Allocation(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build asset allocation report")
		http.Error(w, "Failed to build allocation report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func writeAssetError(w http.ResponseWriter, err error, userID int64) {
	switch err {
	case asset.ErrAssetNotFound:
		http.Error(w, "Asset not found", http.StatusNotFound)
	case asset.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case asset.ErrInvalidType, asset.ErrInvalidValue, asset.ErrNameRequired:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("asset operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
