// backend/src/handlers/export_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/export"
	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

var exportTitles = map[string]string{
	"transactions":    "Transactions report",
	"crypto":          "Crypto assets report",
	"recommendations": "Financial recommendations report",
}

// HandleExport streams the requested data set in the requested format.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	dataType := r.URL.Query().Get("type")
	format := r.URL.Query().Get("format")

	title, ok := exportTitles[dataType]
	if !ok {
		sendJSONError(w, "Invalid export type, expected transactions, crypto or recommendations", http.StatusBadRequest)
		return
	}

	formatter, err := export.NewFormatter(format, title)
	if err != nil {
		sendJSONError(w, "Invalid export format, expected csv, json or pdf", http.StatusBadRequest)
		return
	}

	rows, err := h.loadRows(dataType, userID)
	if err != nil {
		logger.L.Error("Failed to load data for export", "userID", userID, "type", dataType, "error", err)
		sendJSONError(w, "Failed to load data for export", http.StatusInternalServerError)
		return
	}

	body, err := export.Export(rows, formatter)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			sendJSONError(w, "Nothing to export", http.StatusNotFound)
			return
		}
		logger.L.Error("Export formatting failed", "userID", userID, "type", dataType, "format", format, "error", err)
		sendJSONError(w, "Failed to render export", http.StatusInternalServerError)
		return
	}

	filename := export.Filename(dataType, format, time.Now())

	logger.L.Info("Export generated", "userID", userID, "type", dataType, "format", format, "rows", len(rows))
	w.Header().Set("Content-Type", formatter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *ExportHandler) loadRows(dataType string, userID int64) ([]export.Row, error) {
	switch dataType {
	case "transactions":
		transactions, err := model.ListTransactions(database.DB, userID, model.TransactionFilter{})
		if err != nil {
			return nil, err
		}
		categories, err := model.ListCategories(database.DB, userID)
		if err != nil {
			return nil, err
		}
		return export.TransactionRows(transactions, finance.NewRegistryFromCategories(categories)), nil
	case "crypto":
		assets, err := model.ListAssets(database.DB, userID)
		if err != nil {
			return nil, err
		}
		return export.AssetRows(assets), nil
	case "recommendations":
		recommendations, err := model.ListRecommendations(database.DB, userID, config.Cfg.RecommendationLimit)
		if err != nil {
			return nil, err
		}
		return export.RecommendationRows(recommendations), nil
	default:
		return nil, fmt.Errorf("unsupported export type %q", dataType)
	}
}
