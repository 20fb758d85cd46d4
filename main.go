package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rewards/config"
	"rewards/jobs"
	middlewares "rewards/middleware"
	"rewards/routes"
	"rewards/services"
	"rewards/services/logger"
	"rewards/services/notification"
	"rewards/validator"
)

// @title        Rewards API
// @version      1.0
// @description  Ad rewards ledger: ad credits, referrals, withdrawals and admin reporting.
// @BasePath     /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  AdminAuth
// @in                          header
// @name                        X-Admin-Username
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var appLogger logger.Logger
	zapLogger, err := logger.NewZapLogger(cfg.IsProduction(), logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Printf("Warning: zap unavailable, falling back to std log: %v", err)
		appLogger = logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))
	} else {
		defer zapLogger.Sync()
		appLogger = zapLogger
	}

	db, err := config.ConnectDB(cfg.Database, logger.ParseLevel(cfg.LogLevel) == logger.DebugLevel)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb, err := config.ConnectRedis(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := validator.Register(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	router, m, c := config.InitApp(cfg)
	notifier := notification.NewMelodyService(m)

	tokens := services.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(services.AuthServiceOptions{
		DB:             db,
		Logger:         appLogger,
		Tokens:         tokens,
		GoogleClientID: cfg.Google.ClientID,
	})
	ledgerService := services.NewLedgerService(services.LedgerServiceOptions{
		DB:        db,
		Logger:    appLogger,
		Economics: cfg.Economics,
	})
	withdrawalService := services.NewWithdrawalService(services.WithdrawalServiceOptions{
		DB:        db,
		Logger:    appLogger,
		Economics: cfg.Economics,
		Notifier:  notifier,
	})
	adminService := services.NewAdminService(services.AdminServiceOptions{
		DB:        db,
		Redis:     rdb,
		Logger:    appLogger,
		Economics: cfg.Economics,
		Notifier:  notifier,
	})

	var counter middlewares.WindowCounter
	if rdb != nil {
		counter = middlewares.NewRedisWindowCounter(rdb)
	}

	routes.SetupRoutes(router, routes.Dependencies{
		Config:      cfg,
		Logger:      appLogger,
		Tokens:      tokens,
		Auth:        authService,
		Ledger:      ledgerService,
		Withdrawals: withdrawalService,
		Admin:       adminService,
		Inbox:       services.NewInboxService(db),
		Melody:      m,
		RateCounter: counter,
	})

	if err := jobs.InitCronJobs(c, jobs.Jobs{
		Stats:    adminService,
		Revenue:  adminService,
		Logger:   appLogger,
		Location: cfg.Economics.Location,
	}); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP server shutdown: %v", err)
	}

	<-c.Stop().Done()
	if err := m.Close(); err != nil {
		appLogger.Error("❌ websocket hub close: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			appLogger.Error("❌ Redis close: %v", err)
		}
	}
	if err := config.CloseDB(db); err != nil {
		appLogger.Error("❌ database close: %v", err)
	}
	appLogger.Info("✅ Shutdown complete")
}
