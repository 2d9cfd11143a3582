// backend/src/handlers/web3_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/security/validation"
	"github.com/username/bitbudget/backend/src/services"
	"github.com/username/bitbudget/backend/src/utils"
)

type Web3Handler struct {
	web3Service services.Web3Service
}

func NewWeb3Handler(web3Service services.Web3Service) *Web3Handler {
	return &Web3Handler{web3Service: web3Service}
}

func (h *Web3Handler) HandleConnectWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		WalletAddress string `json:"walletAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	if err := validation.ValidateEthAddress(req.WalletAddress); err != nil {
		sendJSONError(w, "Invalid wallet address", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to load user for wallet connect", "userID", userID, "error", err)
		sendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	if err := user.UpdateWalletAddress(database.DB, req.WalletAddress); err != nil {
		logger.L.Error("Failed to save wallet address", "userID", userID, "error", err)
		sendJSONError(w, "Failed to connect wallet", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Wallet connected", "userID", userID)
	utils.SendJSONResponse(w, map[string]string{
		"message":       "Wallet connected successfully",
		"walletAddress": req.WalletAddress,
	}, http.StatusOK)
}

func (h *Web3Handler) HandleGetWalletInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil || user.WalletAddress == "" {
		sendJSONError(w, "No wallet connected to this account", http.StatusBadRequest)
		return
	}

	utils.SendJSONResponse(w, map[string]string{"walletAddress": user.WalletAddress}, http.StatusOK)
}

// HandleSyncAssets fetches the wallet's native ETH balance and overwrites the
// stored asset row. Only ETH on mainnet is synced.
func (h *Web3Handler) HandleSyncAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil || user.WalletAddress == "" {
		sendJSONError(w, "No wallet connected to this account", http.StatusBadRequest)
		return
	}

	balance, err := h.web3Service.FetchEthBalance(r.Context(), user.WalletAddress)
	if err != nil {
		logger.L.Error("Failed to fetch ETH balance", "userID", userID, "error", err)
		sendJSONError(w, "Failed to fetch balance from the blockchain", http.StatusBadGateway)
		return
	}

	asset := &model.Web3Asset{
		UserID:    userID,
		Name:      "Ethereum",
		Symbol:    "ETH",
		Balance:   balance,
		TokenType: "NATIVE",
		Network:   "ethereum",
	}
	if err := model.UpsertAsset(database.DB, asset); err != nil {
		logger.L.Error("Failed to store synced asset", "userID", userID, "error", err)
		sendJSONError(w, "Failed to store synced assets", http.StatusInternalServerError)
		return
	}

	assets, err := model.ListAssets(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to list assets after sync", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve assets", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Assets synced", "userID", userID, "ethBalance", balance)
	utils.SendJSONResponse(w, map[string]interface{}{
		"message": "Assets synced successfully",
		"assets":  assets,
	}, http.StatusOK)
}

func (h *Web3Handler) HandleGetAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	assets, err := model.ListAssets(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to list assets", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve assets", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, assets, http.StatusOK)
}
