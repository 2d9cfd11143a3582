// backend/src/handlers/transaction_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/security/validation"
	"github.com/username/bitbudget/backend/src/utils"
)

type TransactionHandler struct {
	cache *cache.Cache
}

func NewTransactionHandler(reportCache *cache.Cache) *TransactionHandler {
	return &TransactionHandler{cache: reportCache}
}

type transactionRequest struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// sanitizeAndValidate normalizes the payload and resolves the category key to
// the user's registry. The transaction is rejected when the key is unknown.
func (req *transactionRequest) sanitizeAndValidate(userID int64) (*model.Category, time.Time, error) {
	req.Title = validation.SanitizeText(strings.TrimSpace(req.Title))
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Description = validation.SanitizeText(strings.TrimSpace(req.Description))

	if err := validation.ValidateTitle(req.Title); err != nil {
		return nil, time.Time{}, err
	}
	if err := validation.ValidateAmount(req.Amount); err != nil {
		return nil, time.Time{}, err
	}
	if err := validation.ValidateStringMaxLength(req.Description, validation.MaxDescriptionLength, "Description"); err != nil {
		return nil, time.Time{}, err
	}
	if err := validation.ValidateCategoryKey(req.Category); err != nil {
		return nil, time.Time{}, err
	}

	date, err := validation.ValidateDateString(req.Date, "Date")
	if err != nil {
		return nil, time.Time{}, err
	}

	category, err := model.GetCategoryByKey(database.DB, req.Category, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, fmt.Errorf("unknown category %q", req.Category)
		}
		return nil, time.Time{}, err
	}
	return category, date, nil
}

func summaryCacheKey(userID int64, year int) string {
	return fmt.Sprintf("summary:%d:%d", userID, year)
}

func (h *TransactionHandler) invalidateSummaryCache(userID int64, years ...int) {
	for _, year := range years {
		h.cache.Delete(summaryCacheKey(userID, year))
	}
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var filter model.TransactionFilter
	query := r.URL.Query()

	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			sendJSONError(w, "Invalid month parameter", http.StatusBadRequest)
			return
		}
		year, err := strconv.Atoi(query.Get("year"))
		if err != nil || year < 1 {
			sendJSONError(w, "Month filtering requires a valid year parameter", http.StatusBadRequest)
			return
		}
		filter.Month = month
		filter.Year = year
	}

	if typeParam := query.Get("type"); typeParam != "" {
		if typeParam != "expense" && typeParam != "income" {
			sendJSONError(w, "Invalid type parameter, expected expense or income", http.StatusBadRequest)
			return
		}
		filter.Type = typeParam
	}

	transactions, err := model.ListTransactions(database.DB, userID, filter)
	if err != nil {
		logger.L.Error("Failed to list transactions", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve transactions", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, transactions, http.StatusOK)
}

func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	transactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	transaction, err := model.GetTransactionByID(database.DB, transactionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load transaction", "userID", userID, "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to retrieve transaction", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, transaction, http.StatusOK)
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category, date, err := req.sanitizeAndValidate(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transaction := &model.Transaction{
		UserID:      userID,
		CategoryID:  category.ID,
		CategoryKey: category.Key,
		Title:       req.Title,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Category:    category,
	}
	if err := model.CreateTransaction(database.DB, transaction); err != nil {
		logger.L.Error("Failed to create transaction", "userID", userID, "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	h.invalidateSummaryCache(userID, date.Year())

	logger.L.Info("Transaction created", "userID", userID, "transactionID", transaction.ID)
	utils.SendJSONResponse(w, transaction, http.StatusCreated)
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	transactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category, date, err := req.sanitizeAndValidate(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transaction, err := model.GetTransactionByID(database.DB, transactionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load transaction for update", "userID", userID, "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	oldYear := transaction.Date.Year()

	transaction.CategoryID = category.ID
	transaction.CategoryKey = category.Key
	transaction.Title = req.Title
	transaction.Amount = req.Amount
	transaction.Date = date
	transaction.Description = req.Description
	transaction.Category = category

	if err := transaction.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update transaction", "userID", userID, "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	h.invalidateSummaryCache(userID, oldYear, date.Year())

	logger.L.Info("Transaction updated", "userID", userID, "transactionID", transactionID)
	utils.SendJSONResponse(w, transaction, http.StatusOK)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	transactionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	transaction, err := model.GetTransactionByID(database.DB, transactionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load transaction for delete", "userID", userID, "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	if err := model.DeleteTransaction(database.DB, transactionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete transaction", "userID", userID, "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	h.invalidateSummaryCache(userID, transaction.Date.Year())

	logger.L.Info("Transaction deleted", "userID", userID, "transactionID", transactionID)
	utils.SendJSONResponse(w, map[string]string{"message": "Transaction deleted successfully"}, http.StatusOK)
}

// HandleGetSummary returns the monthly income/expense overview for a year.
// Results are cached per user and year until a transaction mutation.
func (h *TransactionHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			sendJSONError(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	cacheKey := summaryCacheKey(userID, year)
	if cached, found := h.cache.Get(cacheKey); found {
		logger.L.Debug("Serving yearly summary from cache", "userID", userID, "year", year)
		utils.SendJSONResponse(w, cached, http.StatusOK)
		return
	}

	summary, err := model.SummarizeYear(database.DB, userID, year)
	if err != nil {
		logger.L.Error("Failed to summarize year", "userID", userID, "year", year, "error", err)
		sendJSONError(w, "Failed to compute summary", http.StatusInternalServerError)
		return
	}

	h.cache.Set(cacheKey, summary, cache.DefaultExpiration)
	utils.SendJSONResponse(w, summary, http.StatusOK)
}
