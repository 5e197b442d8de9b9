package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finledger/ledger-api/internal/api/handler"
	"github.com/finledger/ledger-api/internal/api/middleware"
	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer needs. Services are built by
// the caller so the router stays wiring-only.
type RouterConfig struct {
	Auth         ports.AuthService
	Accounts     ports.AccountService
	Transactions ports.TransactionService
	JWTSecret    string
	DB           *mongo.Database
	Redis        *redis.Client
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ledger"))

	authHandler := handler.NewAuthHandler(cfg.Auth)
	userHandler := handler.NewUserHandler(cfg.Accounts)
	txHandler := handler.NewTransactionHandler(cfg.Transactions)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	users := e.Group("/users", authRequired)
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me)
	users.POST("/me/block", userHandler.BlockMe)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.POST("/:id/block", userHandler.Block, adminOnly)

	// --- Transaction routes ---
	txs := e.Group("/transactions", authRequired)
	txs.POST("/deposit", txHandler.Deposit)
	txs.POST("/withdraw", txHandler.Withdraw)
	txs.POST("/transfer", txHandler.Transfer)
	txs.GET("/my", txHandler.Owned)
	txs.GET("/my/:id", txHandler.OwnedByID)
	txs.POST("/my/:id/cancel", txHandler.CancelOwned)
	txs.GET("", txHandler.List, adminOnly)
	txs.GET("/:id", txHandler.Get, adminOnly)
	txs.POST("/:id/cancel", txHandler.Cancel, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
