// Package api assembles the fulfillment HTTP process: configuration,
// observability, adapters, and the orchestrator wiring.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	checkoutcatalog "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/catalog"
	checkoutgateway "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/gateway"
	checkoutmemory "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/memory"
	checkoutnotifier "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/notifier"
	checkoutpostgres "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/postgres"
	checkoutredis "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/redis"
	checkoutapp "github.com/agrikart/fulfillment/internal/domains/checkout/application"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliverymemory "github.com/agrikart/fulfillment/internal/domains/delivery/adapters/memory"
	deliverynotifier "github.com/agrikart/fulfillment/internal/domains/delivery/adapters/notifier"
	deliverypostgres "github.com/agrikart/fulfillment/internal/domains/delivery/adapters/postgres"
	deliveryapp "github.com/agrikart/fulfillment/internal/domains/delivery/application"
	deliveryports "github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	fraudledger "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/ledger"
	fraudmemory "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/memory"
	fraudpostgres "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/postgres"
	fraudapp "github.com/agrikart/fulfillment/internal/domains/fraud/application"
	fraudports "github.com/agrikart/fulfillment/internal/domains/fraud/ports"
	fulfillmenthttp "github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/http"
	fulfillmentworkflows "github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/workflows"
	fulfillmentapp "github.com/agrikart/fulfillment/internal/domains/fulfillment/application"
	fulfillmentports "github.com/agrikart/fulfillment/internal/domains/fulfillment/ports"
	ordersmemory "github.com/agrikart/fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/agrikart/fulfillment/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/agrikart/fulfillment/internal/domains/orders/adapters/postgres"
	ordersapp "github.com/agrikart/fulfillment/internal/domains/orders/application"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
	"github.com/agrikart/fulfillment/internal/platform/migrations"
	platformobservability "github.com/agrikart/fulfillment/internal/platform/observability"
	platformpostgres "github.com/agrikart/fulfillment/internal/platform/postgres"
	platformredis "github.com/agrikart/fulfillment/internal/platform/redis"
)

// Run boots the fulfillment HTTP API with observability, repositories, and
// the confirmation orchestrator wired.
func Run(ctx context.Context) error {
	const serviceName = "fulfillment-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	ordersRepo := buildOrdersRepository(db, logger)
	ledgerCore := ordersapp.NewService(ordersRepo, ordersapp.WithLogger(logger))
	ledger := ordersobs.New(
		ledgerCore,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	sessions, cleanupSessions := buildSessionStore(ctx, cfg, db, logger)
	defer cleanupSessions()

	sentinel := buildSentinel(cfg, db, ordersRepo, logger)

	checkout := checkoutapp.NewService(
		sessions,
		buildGateway(cfg, logger),
		buildCatalog(cfg, logger),
		ledger,
		checkoutapp.WithLogger(logger),
		checkoutapp.WithConfirmedHook(sentinel),
		checkoutapp.WithConfirmedHook(checkoutnotifier.NewConfirmationHook(logger)),
	)

	var confirmation fulfillmentports.ConfirmationOrchestrator = fulfillmentworkflows.NewInlineConfirmation(checkout)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, confirming sessions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		confirmation = fulfillmentworkflows.NewTemporalConfirmation(temporalClient)
		logger.Info("Temporal confirmation enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	delivery := deliveryapp.NewService(
		buildOtpStore(db, logger),
		deliverynotifier.NewLogNotifier(logger),
		deliveryapp.WithLogger(logger),
	)

	orchestrator := fulfillmentapp.NewOrchestrator(
		checkout,
		confirmation,
		ledger,
		delivery,
		fulfillmentapp.WithLogger(logger),
	)

	router := fulfillmenthttp.NewRouter(fulfillmenthttp.NewAPI(orchestrator), serviceName)
	addr := ":" + cfg.Port
	logger.Info("fulfillment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fulfillment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrdersRepository(db *gorm.DB, logger *slog.Logger) ordersports.Repository {
	if db == nil {
		logger.Warn("using in-memory order repository")
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db)
}

// buildSessionStore prefers Redis for session storage: TTL handles purging
// and the claim key gives a cross-process consume CAS. Postgres and memory
// are the fallbacks.
func buildSessionStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (checkoutports.SessionStore, func()) {
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if rdb, cleanup := platformredis.ConnectFromEnv(ctx, logger); rdb != nil {
		logger.Info("session store configured with redis")
		return checkoutredis.NewSessionStore(rdb, ttl), cleanup
	}
	if db != nil {
		logger.Info("session store configured with postgres")
		return checkoutpostgres.NewSessionStore(db), func() {}
	}
	logger.Warn("using in-memory session store")
	return checkoutmemory.NewSessionStore(), func() {}
}

func buildGateway(cfg Config, logger *slog.Logger) checkoutports.PaymentGateway {
	if cfg.PaymentGatewayURL == "" {
		logger.Warn("PAYMENT_GATEWAY_URL not set, using fake gateway")
		return checkoutgateway.NewFake()
	}
	return checkoutgateway.NewHTTPClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayAPIKey)
}

func buildCatalog(cfg Config, logger *slog.Logger) checkoutports.Catalog {
	if cfg.CatalogURL == "" {
		logger.Warn("CATALOG_URL not set, using empty in-memory catalog")
		return checkoutmemory.NewCatalog()
	}
	return checkoutcatalog.NewHTTPClient(cfg.CatalogURL)
}

func buildOtpStore(db *gorm.DB, logger *slog.Logger) deliveryports.OtpStore {
	if db == nil {
		logger.Warn("using in-memory delivery code store")
		return deliverymemory.NewStore()
	}
	return deliverypostgres.NewStore(db)
}

func buildSentinel(cfg Config, db *gorm.DB, ordersRepo ordersports.Repository, logger *slog.Logger) *fraudapp.Sentinel {
	var logs fraudports.LogRepository = fraudmemory.NewLogRepository()
	if db != nil {
		logs = fraudpostgres.NewLogRepository(db)
	}
	return fraudapp.NewSentinel(
		logs,
		fraudledger.NewHistory(ordersRepo),
		fraudapp.WithLogger(logger),
		fraudapp.WithFirstOrderCeiling(cfg.FraudFirstOrderCeiling),
	)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, fmt.Errorf("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
