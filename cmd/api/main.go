package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/adapter/cbr"
	httpHandler "passimpay-gateway/internal/adapter/http/handler"
	"passimpay-gateway/internal/adapter/passimpay"
	pgStorage "passimpay-gateway/internal/adapter/storage/postgres"
	redisStorage "passimpay-gateway/internal/adapter/storage/redis"
	"passimpay-gateway/internal/core/ports"
	"passimpay-gateway/internal/service"
	"passimpay-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Passimpay Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	orderRepo := pgStorage.NewOrderRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)

	// Initialize external clients
	processorClient := passimpay.NewClient(cfg.Passimpay, nil, log)
	rateSource := cbr.NewClient(cfg.Rates, nil, log)

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	converter := service.NewConverter(rateSource, log)
	workflow := service.NewWorkflowEngine(orderRepo, log)
	paymentHook := service.NewLoggingPaymentCallback(log)
	checkoutSvc := service.NewCheckoutService(orderRepo, ledgerRepo, processorClient, converter, sigSvc, cfg.Passimpay, log)
	callbackSvc := service.NewCallbackService(orderRepo, ledgerRepo, processorClient, workflow, paymentHook, sigSvc, cfg.Passimpay, log)
	authSvc := service.NewAuthService(cfg.Operator, hashSvc, tokenSvc)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CheckoutSvc:    checkoutSvc,
		CallbackSvc:    callbackSvc,
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		OrderRepo:      orderRepo,
		Ledger:         ledgerRepo,
		ReturnCfg:      cfg.Return,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
