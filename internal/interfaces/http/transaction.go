package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/transaction"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// TransactionHandler serves the transaction CRUD, filtering and
// recurring detection endpoints.
type TransactionHandler struct {
	transactionService *transaction.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

type CreateTransactionRequest struct {
	AccountID         string          `json:"account_id"`
	CategoryID        *int64          `json:"category_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	TransactionDate   string          `json:"transaction_date"`
	Type              string          `json:"type"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurrencePattern *string         `json:"recurrence_pattern"`
}

type UpdateTransactionRequest struct {
	AccountID         *string          `json:"account_id"`
	CategoryID        *int64           `json:"category_id"`
	Amount            *decimal.Decimal `json:"amount"`
	Description       *string          `json:"description"`
	TransactionDate   *string          `json:"transaction_date"`
	Type              *string          `json:"type"`
	IsRecurring       *bool            `json:"is_recurring"`
	RecurrencePattern *string          `json:"recurrence_pattern"`
}

// TransactionListResponse is a paginated page of transactions.
type TransactionListResponse struct {
	Transactions []*transaction.Transaction `json:"transactions"`
	Total        int64                      `json:"total"`
	Limit        int                        `json:"limit"`
	Offset       int                        `json:"offset"`
}

// HandleTransactions handles the transaction collection (GET list, POST create)
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r, userID)
	case http.MethodPost:
		h.handleCreateTransaction(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, ok := parseTransactionFilter(r)
	if !ok {
		http.Error(w, "Invalid date filter", http.StatusBadRequest)
		return
	}

	txs, total, err := h.transactionService.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list transactions")
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	if txs == nil {
		txs = []*transaction.Transaction{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TransactionListResponse{
		Transactions: txs,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

func parseTransactionFilter(r *http.Request) (transaction.Filter, bool) {
	filter := transaction.Filter{
		AccountID: r.URL.Query().Get("account_id"),
		Type:      r.URL.Query().Get("type"),
		Limit:     intParam(r, "limit", 50),
		Offset:    intParam(r, "offset", 0),
	}

	start, ok := dateParam(r, "start_date")
	if !ok {
		return filter, false
	}
	end, ok := dateParam(r, "end_date")
	if !ok {
		return filter, false
	}
	filter.StartDate = start
	filter.EndDate = end

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id := intParam(r, "category_id", 0); id > 0 {
			cid := int64(id)
			filter.CategoryID = &cid
		}
	}
	if raw := r.URL.Query().Get("min_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MinAmount = &d
		}
	}
	if raw := r.URL.Query().Get("max_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MaxAmount = &d
		}
	}
	return filter, true
}

func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := parseTransactionDate(req.TransactionDate)
	if err != nil {
		http.Error(w, "Invalid transaction date", http.StatusBadRequest)
		return
	}

	tx, err := h.transactionService.CreateTransaction(r.Context(), transaction.CreateParams{
		UserID:            userID,
		AccountID:         req.AccountID,
		CategoryID:        req.CategoryID,
		Amount:            req.Amount,
		Description:       req.Description,
		TransactionDate:   date,
		Type:              req.Type,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	})
	if err != nil {
		writeTransactionError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// HandleTransactionByID handles operations on a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactionID := r.PathValue("id")
	if transactionID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetTransaction(w, r, userID, transactionID)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateTransaction(w, r, userID, transactionID)
	case http.MethodDelete:
		h.handleDeleteTransaction(w, r, userID, transactionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleGetTransaction(w http.ResponseWriter, r *http.Request, userID int64, transactionID string) {
	tx, err := h.transactionService.GetTransaction(r.Context(), transactionID, userID)
	if err != nil {
		writeTransactionError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, userID int64, transactionID string) {
	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		AccountID:         req.AccountID,
		CategoryID:        req.CategoryID,
		Amount:            req.Amount,
		Description:       req.Description,
		Type:              req.Type,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	}
	if req.TransactionDate != nil {
		date, err := parseTransactionDate(*req.TransactionDate)
		if err != nil {
			http.Error(w, "Invalid transaction date", http.StatusBadRequest)
			return
		}
		params.TransactionDate = &date
	}

	tx, err := h.transactionService.UpdateTransaction(r.Context(), transactionID, userID, params)
	if err != nil {
		writeTransactionError(w, err, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID int64, transactionID string) {
	if err := h.transactionService.DeleteTransaction(r.Context(), transactionID, userID); err != nil {
		writeTransactionError(w, err, userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRecurring returns transactions already marked recurring plus
// groups that look recurring based on interval regularity.
func (h *TransactionHandler) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := h.transactionService.RecurringTransactions(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to detect recurring transactions")
		http.Error(w, "Failed to detect recurring transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func parseTransactionDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeTransactionError(w http.ResponseWriter, err error, userID int64) {
	switch err {
	case transaction.ErrTransactionNotFound:
		http.Error(w, "Transaction not found", http.StatusNotFound)
	case account.ErrAccountNotFound:
		http.Error(w, "Account not found", http.StatusNotFound)
	case transaction.ErrForbidden:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case transaction.ErrInvalidType, transaction.ErrInvalidAmount:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("transaction operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
