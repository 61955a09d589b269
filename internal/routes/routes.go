package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/tap-wallet/tap_wallet/internal/config"
	"github.com/tap-wallet/tap_wallet/internal/deposit"
	"github.com/tap-wallet/tap_wallet/internal/ledger"
	"github.com/tap-wallet/tap_wallet/internal/middleware"
	"github.com/tap-wallet/tap_wallet/internal/notification"
	"github.com/tap-wallet/tap_wallet/internal/settlement"
	"github.com/tap-wallet/tap_wallet/internal/verification"
	"github.com/tap-wallet/tap_wallet/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	Cache  *redis.Client
	Logger *slog.Logger

	// Oracle overrides the transaction-status source; defaults to the
	// always-confirming simulator.
	Oracle settlement.Oracle
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Core state
	ledgerBackend := ledger.NewInMemory(ledger.DefaultFundingSources())
	verifyState := verification.NewState()
	notifier := notification.NewLoggerNotifier(d.Logger)

	// Services
	walletSvc := wallet.NewService(ledgerBackend, verifyState)
	engine := settlement.NewEngine(ledgerBackend, verifyState, notifier, d.Logger, settlement.Timings{
		Processing:  d.Cfg.ProcessingDelay,
		PaidDisplay: d.Cfg.PaidDisplay,
		FailDismiss: d.Cfg.FailDismiss,
		FailClear:   d.Cfg.FailClear,
	})
	oracle := d.Oracle
	if oracle == nil {
		oracle = settlement.StaticOracle{}
	}
	watcher := settlement.NewWatcher(ledgerBackend, oracle, notifier, d.Logger, d.Cfg.WatcherInterval, d.Cfg.WatcherTimeout)
	depositSvc := deposit.NewService(ledgerBackend, watcher, d.Logger)
	registry := verification.NewRegistryClient(d.Cfg.RegistryURL)
	poller := verification.NewPoller(registry, verifyState, d.Logger, d.Cfg.VerifyInterval, d.Cfg.VerifyAttempts, d.Cfg.VerifyTimeout)
	verifySvc := verification.NewService(poller, verifyState, notifier)

	// Handlers
	walletHandler := wallet.NewHandler(walletSvc)
	payHandler := settlement.NewHandler(engine)
	depositHandler := deposit.NewHandler(depositSvc)
	verifyHandler := verification.NewHandler(verifySvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)
	RegisterPayRoutes(api, payHandler)
	RegisterDepositRoutes(api, depositHandler)

	verifyRateLimiter := middleware.VerificationRateLimit(d.Cache, 3)
	RegisterVerificationRoutes(api, verifyHandler, verifyRateLimiter)

	return nil
}
