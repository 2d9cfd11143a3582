// backend/src/handlers/ai_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/services"
	"github.com/username/bitbudget/backend/src/utils"
)

type AiHandler struct {
	advisorService services.AdvisorService
}

func NewAiHandler(advisorService services.AdvisorService) *AiHandler {
	return &AiHandler{advisorService: advisorService}
}

func (h *AiHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	recommendations, err := model.ListRecommendations(database.DB, userID, config.Cfg.RecommendationLimit)
	if err != nil {
		logger.L.Error("Failed to list recommendations", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve recommendations", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, recommendations, http.StatusOK)
}

// HandleGenerateRecommendation aggregates the trailing window of transactions
// and runs the rule engine over the snapshot. The result is persisted and
// returned.
func (h *AiHandler) HandleGenerateRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	since := time.Now().AddDate(0, -config.Cfg.RecommendationWindowMonths, 0)
	transactions, err := model.ListTransactionsSince(database.DB, userID, since)
	if err != nil {
		logger.L.Error("Failed to load transactions for recommendation", "userID", userID, "error", err)
		sendJSONError(w, "Failed to generate recommendation", http.StatusInternalServerError)
		return
	}

	categories, err := model.ListCategories(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to load categories for recommendation", "userID", userID, "error", err)
		sendJSONError(w, "Failed to generate recommendation", http.StatusInternalServerError)
		return
	}
	registry := finance.NewRegistryFromCategories(categories)

	snapshot := finance.Aggregate(finance.Views(transactions), registry)
	advice := h.advisorService.Advise(snapshot, registry)

	recommendation := &model.AiRecommendation{
		UserID:  userID,
		Title:   advice.Title,
		Content: advice.Content,
		Type:    advice.Type,
	}
	if err := model.CreateRecommendation(database.DB, recommendation); err != nil {
		logger.L.Error("Failed to persist recommendation", "userID", userID, "error", err)
		sendJSONError(w, "Failed to save recommendation", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Recommendation generated", "userID", userID, "recommendationID", recommendation.ID, "type", recommendation.Type)
	utils.SendJSONResponse(w, recommendation, http.StatusCreated)
}

func (h *AiHandler) HandleMarkRecommendationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	recommendationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid recommendation ID", http.StatusBadRequest)
		return
	}

	if err := model.MarkRecommendationRead(database.DB, recommendationID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Recommendation not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to mark recommendation as read", "userID", userID, "recommendationID", recommendationID, "error", err)
		sendJSONError(w, "Failed to mark recommendation as read", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, map[string]string{"message": "Recommendation marked as read"}, http.StatusOK)
}
