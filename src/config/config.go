package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port           string
	DatabasePath   string
	MigrationsPath string
	LogLevel       string

	// Security settings
	JWTSecret          string
	CSRFAuthKey        []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Email Service settings
	SenderEmail string
	SenderName  string

	// SMTP specific settings
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	// URL and Token Expiry settings for user actions
	VerificationEmailBaseURL string
	VerificationTokenExpiry  time.Duration
	PasswordResetBaseURL     string
	PasswordResetTokenExpiry time.Duration

	// Web3 settings
	EthRPCURL string

	// AI advisor settings
	RecommendationWindowMonths int
	RecommendationLimit        int

	// Frontend URL for reference (e.g., CORS, redirects)
	FrontendBaseURL string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	// --- Security & Tokens (Secrets) ---
	jwtSecret := getRequiredEnv("JWT_SECRET")
	csrfAuthKeyStr := getRequiredEnv("CSRF_AUTH_KEY")

	// --- Token Expiry Durations ---
	accessTokenExpiry := getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute)
	refreshTokenExpiry := getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 168*time.Hour) // 7 days
	verificationTokenExpiry := getEnvAsDuration("VERIFICATION_TOKEN_EXPIRY", 24*time.Hour)
	passwordResetTokenExpiry := getEnvAsDuration("PASSWORD_RESET_TOKEN_EXPIRY", 1*time.Hour)

	// --- URL Derivation Logic ---
	frontendBaseURL := getEnv("APP_BASE_URL", "http://localhost:3000")

	// Derive specific URLs from the base URL.
	verificationEmailBaseURL := getEnv("VERIFICATION_EMAIL_BASE_URL", frontendBaseURL+"/verify-email")
	passwordResetBaseURL := getEnv("PASSWORD_RESET_BASE_URL", frontendBaseURL+"/reset-password")

	// --- Populate the Global Config Struct ---
	Cfg = &AppConfig{
		// Core
		Port:           getEnv("PORT", "8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "./bitbudget.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		// Security
		JWTSecret:          jwtSecret,
		CSRFAuthKey:        []byte(csrfAuthKeyStr),
		AccessTokenExpiry:  accessTokenExpiry,
		RefreshTokenExpiry: refreshTokenExpiry,

		// Email
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@bitbudget.com"),
		SenderName:   getEnv("SENDER_NAME", "BitBudget"),
		SMTPServer:   getEnv("SMTP_SERVER", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		// URLs & Expiries
		FrontendBaseURL:          frontendBaseURL,
		VerificationEmailBaseURL: verificationEmailBaseURL,
		VerificationTokenExpiry:  verificationTokenExpiry,
		PasswordResetBaseURL:     passwordResetBaseURL,
		PasswordResetTokenExpiry: passwordResetTokenExpiry,

		// Web3
		EthRPCURL: getEnv("ETH_RPC_URL", "https://eth.llamarpc.com"),

		// AI advisor
		RecommendationWindowMonths: getEnvAsInt("RECOMMENDATION_WINDOW_MONTHS", 3),
		RecommendationLimit:        getEnvAsInt("RECOMMENDATION_LIMIT", 10),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, FrontendURL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.FrontendBaseURL)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
