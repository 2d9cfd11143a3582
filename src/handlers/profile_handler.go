// backend/src/handlers/profile_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/security/validation"
	"github.com/username/bitbudget/backend/src/utils"
)

func (h *UserHandler) GetUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load user profile", "userID", userID, "error", err)
		sendJSONError(w, "Failed to retrieve profile", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, user, http.StatusOK)
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) UpdateUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to load user for profile update", "userID", userID, "error", err)
		sendJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	// Omitted fields keep their current value.
	username := user.Username
	if req.Username != "" {
		username = validation.SanitizeText(strings.TrimSpace(req.Username))
		if err := validation.ValidateStringNotEmpty(username, "Username"); err != nil {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateStringMaxLength(username, validation.MaxTitleLength, "Username"); err != nil {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	email := user.Email
	if req.Email != "" {
		email = strings.ToLower(strings.TrimSpace(req.Email))
		if !emailRegex.MatchString(email) {
			sendJSONError(w, "Invalid email format", http.StatusBadRequest)
			return
		}
	}

	if username != user.Username {
		if _, err := model.GetUserByUsername(database.DB, username); err == nil {
			sendJSONError(w, "Username is already taken", http.StatusConflict)
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			logger.L.Error("Failed to check username uniqueness", "userID", userID, "error", err)
			sendJSONError(w, "Failed to update profile", http.StatusInternalServerError)
			return
		}
	}
	if email != user.Email {
		if _, err := model.GetUserByEmail(database.DB, email); err == nil {
			sendJSONError(w, "Email is already registered", http.StatusConflict)
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			logger.L.Error("Failed to check email uniqueness", "userID", userID, "error", err)
			sendJSONError(w, "Failed to update profile", http.StatusInternalServerError)
			return
		}
	}

	if err := user.UpdateProfile(database.DB, username, email); err != nil {
		logger.L.Error("Failed to update user profile", "userID", userID, "error", err)
		sendJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User profile updated", "userID", userID)
	utils.SendJSONResponse(w, user, http.StatusOK)
}
