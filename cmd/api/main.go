package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/finledger/ledger-api/internal/api"
	"github.com/finledger/ledger-api/internal/core/service"
	"github.com/finledger/ledger-api/internal/infrastructure/config"
	mongodb "github.com/finledger/ledger-api/internal/infrastructure/db/mongo"
	redisdb "github.com/finledger/ledger-api/internal/infrastructure/db/redis"
	"github.com/finledger/ledger-api/internal/infrastructure/queue"
	"github.com/finledger/ledger-api/internal/seed"
	"github.com/finledger/ledger-api/pkg/logger"

	_ "github.com/finledger/ledger-api/docs"
)

const shutdownTimeout = 10 * time.Second

// @title        Ledger API
// @version      1.0
// @description  Account and transaction ledger with deposits, withdrawals, transfers and reversals.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories & infrastructure ---
	accountRepo := mongodb.NewAccountRepository(db)
	ledgerRepo := mongodb.NewLedgerRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	runner := mongodb.NewRunner(mongoClient)
	cache := redisdb.NewAccountCache(rdb)

	if err := seed.EnsureAdmin(ctx, accountRepo, cfg.Admin.Email, cfg.Admin.Password, log); err != nil {
		log.Fatal().Err(err).Msg("admin seeding failed")
	}

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(accountRepo, cfg.JWTSecret, cfg.TokenTTL)
	accountService := service.NewAccountService(accountRepo, cache, log)
	txService := service.NewTransactionService(runner, accountRepo, ledgerRepo, cache, dispatcher, log)

	e := api.NewRouter(api.RouterConfig{
		Auth:         authService,
		Accounts:     accountService,
		Transactions: txService,
		JWTSecret:    cfg.JWTSecret,
		DB:           db,
		Redis:        rdb,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("ledger api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
