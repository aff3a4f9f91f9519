package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// AccountHandler serves the account CRUD and balance history endpoints.
type AccountHandler struct {
	accountService *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Institution    string          `json:"institution"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Institution *string `json:"institution"`
	IsActive    *bool   `json:"is_active"`
}

// BalanceHistoryResponse pairs an account with its reconstructed
// balance series.
type BalanceHistoryResponse struct {
	Account *account.Account       `json:"account"`
	History []account.BalancePoint `json:"history"`
}

// HandleAccounts handles the account collection (GET list, POST create)
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListAccounts(w, r, userID)
	case http.MethodPost:
		h.handleCreateAccount(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request, userID int64) {
	accounts, err := h.accountService.ListAccounts(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list accounts")
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.CreateAccount(r.Context(), account.CreateParams{
		UserID:         userID,
		Name:           req.Name,
		Type:           req.Type,
		Institution:    req.Institution,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		switch err {
		case account.ErrInvalidAccountType, account.ErrInvalidCurrency:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create account")
			http.Error(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(acc)
}

// HandleAccountByID handles operations on a specific account
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetAccount(w, r, userID, accountID)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateAccount(w, r, userID, accountID)
	case http.MethodDelete:
		h.handleDeleteAccount(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleGetAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	acc, err := h.accountService.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, err, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleUpdateAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.UpdateAccount(r.Context(), accountID, userID, account.UpdateParams{
		Name:        req.Name,
		Type:        req.Type,
		Institution: req.Institution,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if err == account.ErrInvalidAccountType {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeAccountError(w, err, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	if err := h.accountService.DeleteAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, err, accountID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleBalanceHistory returns the reconstructed balance series of one
// account, oldest point first.
func (h *AccountHandler) HandleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	acc, history, err := h.accountService.BalanceHistory(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, err, accountID)
		return
	}

	if history == nil {
		history = []account.BalancePoint{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BalanceHistoryResponse{Account: acc, History: history})
}

func writeAccountError(w http.ResponseWriter, err error, accountID string) {
	switch err {
	case account.ErrAccountNotFound:
		http.Error(w, "Account not found", http.StatusNotFound)
	case account.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Error().Err(err).Str("account_id", accountID).Msg("account operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
