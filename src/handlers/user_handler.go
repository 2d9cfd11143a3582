// backend/src/handlers/user_handler.go

package handlers

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/model"
	"github.com/username/bitbudget/backend/src/security"
	"github.com/username/bitbudget/backend/src/services"
	"github.com/username/bitbudget/backend/src/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

type UserHandler struct {
	authService  *security.AuthService
	emailService services.EmailService
	cache        *cache.Cache
}

func NewUserHandler(authService *security.AuthService, emailService services.EmailService, reportCache *cache.Cache) *UserHandler {
	return &UserHandler{
		authService:  authService,
		emailService: emailService,
		cache:        reportCache,
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	utils.SendJSONError(w, message, statusCode)
}

func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		sendJSONError(w, "Verification token is missing", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByVerificationToken(database.DB, token)
	if err != nil {
		logger.L.Warn("Verification token lookup failed", "tokenPrefix", token[:min(10, len(token))], "error", err)
		sendJSONError(w, "Invalid or expired verification token.", http.StatusBadRequest)
		return
	}

	if user.IsEmailVerified {
		logger.L.Info("Email already verified", "userID", user.ID)
		utils.SendJSONResponse(w, map[string]string{"message": "Email already verified. You can log in."}, http.StatusOK)
		return
	}

	if time.Now().After(user.EmailVerificationTokenExpiresAt) {
		logger.L.Warn("Verification token expired", "userID", user.ID, "tokenExpiry", user.EmailVerificationTokenExpiresAt)
		sendJSONError(w, "Verification token has expired. Please request a new one.", http.StatusBadRequest)
		return
	}

	if err := user.UpdateUserVerificationStatus(database.DB, true); err != nil {
		logger.L.Error("Failed to update user verification status in DB", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to verify email. Please try again or contact support.", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Email verified successfully", "userID", user.ID)
	utils.SendJSONResponse(w, map[string]string{"message": "Email verified successfully! You can now log in."}, http.StatusOK)
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
