package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/database"
	"github.com/username/bitbudget/backend/src/handlers"
	"github.com/username/bitbudget/backend/src/logger"
	"github.com/username/bitbudget/backend/src/security"
	"github.com/username/bitbudget/backend/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, Content-Disposition")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("BitBudget backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath, config.Cfg.MigrationsPath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	advisorService := services.NewAdvisorService(config.Cfg.RecommendationWindowMonths)
	web3Service := services.NewWeb3Service()

	userHandler := handlers.NewUserHandler(authService, emailService, reportCache)
	categoryHandler := handlers.NewCategoryHandler()
	txHandler := handlers.NewTransactionHandler(reportCache)
	aiHandler := handlers.NewAiHandler(advisorService)
	web3Handler := handlers.NewWeb3Handler(web3Service)
	exportHandler := handlers.NewExportHandler()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "BitBudget Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
			r.Get("/auth/verify-email", userHandler.VerifyEmailHandler)
		})

		// Authentication routes (CSRF protected)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
			r.Post("/auth/request-password-reset", userHandler.RequestPasswordResetHandler)
			r.Post("/auth/reset-password", userHandler.ResetPasswordHandler)
		})

		// Protected routes (auth + CSRF)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Use(userHandler.AuthMiddleware)

			r.Get("/user/profile", userHandler.GetUserProfileHandler)
			r.Put("/user/profile", userHandler.UpdateUserProfileHandler)

			r.Get("/categories", categoryHandler.HandleListCategories)
			r.Post("/categories", categoryHandler.HandleCreateCategory)
			r.Get("/categories/{id}", categoryHandler.HandleGetCategory)
			r.Put("/categories/{id}", categoryHandler.HandleUpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.HandleDeleteCategory)

			r.Get("/expenses", txHandler.HandleListTransactions)
			r.Post("/expenses", txHandler.HandleCreateTransaction)
			r.Get("/expenses/{id}", txHandler.HandleGetTransaction)
			r.Put("/expenses/{id}", txHandler.HandleUpdateTransaction)
			r.Delete("/expenses/{id}", txHandler.HandleDeleteTransaction)
			r.Get("/expenses/summary", txHandler.HandleGetSummary)

			r.Get("/ai/recommendations", aiHandler.HandleGetRecommendations)
			r.Post("/ai/generate-recommendation", aiHandler.HandleGenerateRecommendation)
			r.Put("/ai/recommendations/{id}/read", aiHandler.HandleMarkRecommendationRead)

			r.Post("/web3/connect-wallet", web3Handler.HandleConnectWallet)
			r.Get("/web3/wallet-info", web3Handler.HandleGetWalletInfo)
			r.Post("/web3/sync-assets", web3Handler.HandleSyncAssets)
			r.Get("/web3/assets", web3Handler.HandleGetAssets)

			r.Get("/export", exportHandler.HandleExport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
