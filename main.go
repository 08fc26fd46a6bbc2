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
	"github.com/misehero/HeroWizzard-version2/src/config"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/handlers"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/security"
	"github.com/misehero/HeroWizzard-version2/src/services"
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
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
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

// bootstrapAdmin creates the initial admin account on an empty users table.
func bootstrapAdmin() {
	count, err := model.CountUsers(database.DB)
	if err != nil {
		logger.L.Error("Failed to count users during bootstrap", "error", err)
		return
	}
	if count > 0 {
		return
	}
	if config.Cfg.BootstrapAdminPassword == "" {
		logger.L.Warn("Users table is empty and BOOTSTRAP_ADMIN_PASSWORD is not set; no admin account created")
		return
	}

	admin := &model.User{
		Username: config.Cfg.BootstrapAdminUsername,
		Email:    config.Cfg.BootstrapAdminEmail,
		IsAdmin:  true,
	}
	if err := admin.HashPassword(config.Cfg.BootstrapAdminPassword); err != nil {
		logger.L.Error("Failed to hash bootstrap admin password", "error", err)
		return
	}
	if err := admin.CreateUser(database.DB); err != nil {
		logger.L.Error("Failed to create bootstrap admin", "error", err)
		return
	}
	logger.L.Info("Bootstrap admin account created", "username", admin.Username)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("HeroWizzard backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	if err := model.SeedLookups(database.DB); err != nil {
		logger.L.Error("Failed to seed lookup tables", "error", err)
		os.Exit(1)
	}
	bootstrapAdmin()

	ruleCache := cache.New(config.Cfg.RuleCacheTTL, services.CacheCleanupInterval)
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	ruleService := services.NewRuleService(ruleCache)
	importService := services.NewImportService(ruleService, reportCache)
	invoiceService := services.NewInvoiceService()

	authMiddleware := handlers.NewAuthMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService)
	importHandler := handlers.NewImportHandler(importService, invoiceService)
	ruleHandler := handlers.NewRuleHandler(ruleService)
	txHandler := handlers.NewTransactionHandler()
	lookupHandler := handlers.NewLookupHandler()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "HeroWizzard Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", authHandler.LoginHandler)
			r.Post("/auth/refresh", authHandler.RefreshTokenHandler)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)

			r.Get("/auth/me", authHandler.MeHandler)

			r.Post("/import", importHandler.HandleImportStatement)
			r.Post("/import/invoices", importHandler.HandleImportInvoices)
			r.Get("/import/batches", importHandler.HandleListBatches)
			r.Get("/import/batches/{batchID}", importHandler.HandleGetBatch)

			r.Get("/transactions", txHandler.HandleListTransactions)
			r.Get("/transactions/{txID}", txHandler.HandleGetTransaction)
			r.Patch("/transactions/{txID}", txHandler.HandleUpdateTransaction)

			r.Get("/rules", ruleHandler.HandleListRules)
			r.Post("/rules", ruleHandler.HandleCreateRule)
			r.Put("/rules/{ruleID}", ruleHandler.HandleUpdateRule)
			r.Delete("/rules/{ruleID}", ruleHandler.HandleDeleteRule)
			r.Post("/rules/apply", ruleHandler.HandleApplyRules)
			r.Post("/rules/test", ruleHandler.HandleTestRule)

			r.Get("/invoices", importHandler.HandleListInvoices)
			r.Get("/lookups", lookupHandler.HandleGetLookups)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.AdminOnly)
				r.Post("/admin/users", authHandler.CreateUserHandler)
			})
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
