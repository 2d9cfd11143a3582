// backend/src/handlers/category_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/security/validation"
	"github.com/username/bitbudget/backend/src/utils"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type categoryRequest struct {
	Key       string `json:"name"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	IsExpense *bool  `json:"isExpense"`
}

func (req *categoryRequest) sanitizeAndValidate() error {
	req.Key = strings.ToLower(strings.TrimSpace(validation.SanitizeText(req.Key)))
	req.Title = validation.SanitizeText(strings.TrimSpace(req.Title))
	req.Color = strings.TrimSpace(req.Color)

	if err := validation.ValidateCategoryKey(req.Key); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(req.Title, "Title"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(req.Title, validation.MaxTitleLength, "Title"); err != nil {
		return err
	}
	if err := validation.ValidateHexColor(req.Color); err != nil {
		return err
	}
	if req.IsExpense == nil {
		return errors.New("isExpense is required")
	}
	return nil
}

func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	categories, err := model.ListCategories(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to list categories", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve categories", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, categories, http.StatusOK)
}

func (h *CategoryHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	category, err := model.GetCategoryByID(database.DB, categoryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Category not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load category", "userID", userID, "categoryID", categoryID, "error", err)
		sendJSONError(w, "Failed to retrieve category", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, category, http.StatusOK)
}

func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := model.GetCategoryByKey(database.DB, req.Key, userID); err == nil {
		sendJSONError(w, "A category with that name already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.L.Error("Failed to check category uniqueness", "userID", userID, "error", err)
		sendJSONError(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	category := &model.Category{
		UserID:    userID,
		Key:       req.Key,
		Title:     req.Title,
		Color:     req.Color,
		IsExpense: *req.IsExpense,
	}
	if err := model.CreateCategory(database.DB, category); err != nil {
		logger.L.Error("Failed to create category", "userID", userID, "error", err)
		sendJSONError(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Category created", "userID", userID, "categoryID", category.ID, "key", category.Key)
	utils.SendJSONResponse(w, category, http.StatusCreated)
}

func (h *CategoryHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := model.GetCategoryByID(database.DB, categoryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Category not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load category for update", "userID", userID, "categoryID", categoryID, "error", err)
		sendJSONError(w, "Failed to update category", http.StatusInternalServerError)
		return
	}

	// Renaming onto another category's key is a conflict.
	if req.Key != category.Key {
		if _, err := model.GetCategoryByKey(database.DB, req.Key, userID); err == nil {
			sendJSONError(w, "A category with that name already exists", http.StatusConflict)
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			logger.L.Error("Failed to check category uniqueness", "userID", userID, "error", err)
			sendJSONError(w, "Failed to update category", http.StatusInternalServerError)
			return
		}
	}

	category.Key = req.Key
	category.Title = req.Title
	category.Color = req.Color
	category.IsExpense = *req.IsExpense

	if err := category.Update(database.DB); err != nil {
		logger.L.Error("Failed to update category", "userID", userID, "categoryID", categoryID, "error", err)
		sendJSONError(w, "Failed to update category", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Category updated", "userID", userID, "categoryID", categoryID)
	utils.SendJSONResponse(w, category, http.StatusOK)
}

func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	if err := model.DeleteCategory(database.DB, categoryID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrCategoryInUse):
			sendJSONError(w, "Category has transactions and cannot be deleted", http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			sendJSONError(w, "Category not found", http.StatusNotFound)
		default:
			logger.L.Error("Failed to delete category", "userID", userID, "categoryID", categoryID, "error", err)
			sendJSONError(w, "Failed to delete category", http.StatusInternalServerError)
		}
		return
	}

	logger.L.Info("Category deleted", "userID", userID, "categoryID", categoryID)
	utils.SendJSONResponse(w, map[string]string{"message": "Category deleted successfully"}, http.StatusOK)
}
