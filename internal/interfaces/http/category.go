package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// CategoryHandler serves the category endpoints. Built-in default
// categories are listed alongside the user's own but cannot be
// modified or deleted.
type CategoryHandler struct {
	categoryService *category.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *category.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID *int64 `json:"parent_id"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// HandleCategories handles the category collection (GET list, POST create)
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r, userID)
	case http.MethodPost:
		h.handleCreateCategory(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request, userID int64) {
	cats, err := h.categoryService.ListCategories(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list categories")
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	if cats == nil {
		cats = []*category.Category{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cats)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := h.categoryService.CreateCategory(r.Context(), category.CreateParams{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		Icon:     req.Icon,
		Color:    req.Color,
	})
	if err != nil {
		switch err {
		case category.ErrNameRequired, category.ErrInvalidType, category.ErrParentNotFound, category.ErrParentTypeMismatch:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create category")
			http.Error(w, "Failed to create category", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cat)
}

// HandleCategoryByID handles operations on a specific category
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Category ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateCategory(w, r, id, userID)
	case http.MethodDelete:
		h.handleDeleteCategory(w, r, id, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CategoryHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request, id, userID int64) {
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := h.categoryService.UpdateCategory(r.Context(), id, userID, req.Name, req.Icon, req.Color)
	if err != nil {
		h.respondCategoryError(w, err, id, "failed to update category")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cat)
}

func (h *CategoryHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request, id, userID int64) {
	if err := h.categoryService.DeleteCategory(r.Context(), id, userID); err != nil {
		h.respondCategoryError(w, err, id, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error, id int64, msg string) {
	switch err {
	case category.ErrCategoryNotFound:
		http.Error(w, "Category not found", http.StatusNotFound)
	case category.ErrBuiltIn, category.ErrForbidden:
		http.Error(w, err.Error(), http.StatusForbidden)
	case category.ErrInUse:
		http.Error(w, "Category has transactions or budgets attached", http.StatusConflict)
	default:
		log.Error().Err(err).Int64("category_id", id).Msg(msg)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
