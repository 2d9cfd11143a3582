package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/utils"
)

const passwordResetGenericMessage = "If an account with that email exists and is verified, a password reset link has been sent."

func (h *UserHandler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(req.Email) {
		sendJSONError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByEmail(database.DB, req.Email)
	if err != nil {
		logger.L.Info("Password reset requested, user not found or DB error, sending generic response", "errorIfAny", err)
		utils.SendJSONResponse(w, map[string]string{"message": passwordResetGenericMessage}, http.StatusOK)
		return
	}

	if !user.IsEmailVerified {
		logger.L.Info("Password reset requested for unverified email, sending generic response", "email", req.Email, "userID", user.ID)
		utils.SendJSONResponse(w, map[string]string{"message": passwordResetGenericMessage}, http.StatusOK)
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		logger.L.Error("Failed to generate password reset token bytes", "error", err)
		sendJSONError(w, "Failed to process password reset request", http.StatusInternalServerError)
		return
	}
	resetToken := hex.EncodeToString(tokenBytes)
	tokenExpiry := time.Now().Add(config.Cfg.PasswordResetTokenExpiry)

	if err := user.SetPasswordResetToken(database.DB, resetToken, tokenExpiry); err != nil {
		logger.L.Error("Failed to set password reset token in DB", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to process password reset request", http.StatusInternalServerError)
		return
	}

	if err := h.emailService.SendPasswordResetEmail(user.Email, user.Username, resetToken); err != nil {
		logger.L.Error("Failed to send password reset email", "userEmail", user.Email, "error", err)
	}

	logger.L.Info("Password reset email process initiated successfully", "email", req.Email, "userID", user.ID)
	utils.SendJSONResponse(w, map[string]string{"message": passwordResetGenericMessage}, http.StatusOK)
}

func (h *UserHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		sendJSONError(w, "Password reset token is missing", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		sendJSONError(w, "Passwords do not match", http.StatusBadRequest)
		return
	}
	if !passwordRegex.MatchString(req.Password) {
		sendJSONError(w, "Password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByPasswordResetToken(database.DB, req.Token)
	if err != nil {
		logger.L.Warn("Password reset token lookup failed or token expired", "tokenPrefix", req.Token[:min(10, len(req.Token))], "error", err)
		sendJSONError(w, "Invalid or expired password reset token.", http.StatusBadRequest)
		return
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		logger.L.Error("Failed to hash new password", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to reset password", http.StatusInternalServerError)
		return
	}

	if err := user.UpdatePassword(database.DB, hashedPassword); err != nil {
		logger.L.Error("Failed to update password in DB", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to reset password", http.StatusInternalServerError)
		return
	}

	// Changing the password revokes every outstanding session.
	if err := model.DeleteSessionsByUserID(database.DB, user.ID); err != nil {
		logger.L.Warn("Failed to revoke sessions after password reset", "userID", user.ID, "error", err)
	}

	logger.L.Info("Password reset successfully", "userID", user.ID)
	utils.SendJSONResponse(w, map[string]string{"message": "Password has been reset successfully. You can now log in with your new password."}, http.StatusOK)
}
