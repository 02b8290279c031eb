package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	checkoutcatalog "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/catalog"
	checkoutgateway "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/gateway"
	checkoutmemory "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/memory"
	checkoutnotifier "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/notifier"
	checkoutpostgres "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/postgres"
	checkoutredis "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/redis"
	checkoutapp "github.com/agrikart/fulfillment/internal/domains/checkout/application"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	fraudledger "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/ledger"
	fraudmemory "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/memory"
	fraudpostgres "github.com/agrikart/fulfillment/internal/domains/fraud/adapters/postgres"
	fraudapp "github.com/agrikart/fulfillment/internal/domains/fraud/application"
	fraudports "github.com/agrikart/fulfillment/internal/domains/fraud/ports"
	ordersmemory "github.com/agrikart/fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/agrikart/fulfillment/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/agrikart/fulfillment/internal/domains/orders/adapters/postgres"
	ordersapp "github.com/agrikart/fulfillment/internal/domains/orders/application"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
	"github.com/agrikart/fulfillment/internal/platform/migrations"
	platformobservability "github.com/agrikart/fulfillment/internal/platform/observability"
	platformpostgres "github.com/agrikart/fulfillment/internal/platform/postgres"
	platformredis "github.com/agrikart/fulfillment/internal/platform/redis"
	checkoutactivities "github.com/agrikart/fulfillment/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/agrikart/fulfillment/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "fulfillment-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	checkout, cleanupCheckout := buildCheckoutService(ctx, db, instruments, logger)
	defer cleanupCheckout()
	activities := checkoutactivities.NewActivities(checkout)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.ConfirmationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.ConfirmationWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.ConfirmationWorkflowName})
	w.RegisterActivityWithOptions(activities.ConfirmSession, activity.RegisterOptions{Name: checkoutactivities.ConfirmSessionActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.ConfirmationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildCheckoutService assembles the reconciler with the same adapter
// preferences as the API process, so both paths converge on one store.
func buildCheckoutService(ctx context.Context, db *gorm.DB, instruments *platformobservability.Instruments, logger *slog.Logger) (checkoutports.Service, func()) {
	var ordersRepo ordersports.Repository = ordersmemory.NewRepository()
	if db != nil {
		ordersRepo = orderspostgres.NewRepository(db)
	} else {
		logger.Warn("worker using in-memory order repository")
	}
	ledger := ordersobs.New(
		ordersapp.NewService(ordersRepo, ordersapp.WithLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var sessions checkoutports.SessionStore = checkoutmemory.NewSessionStore()
	cleanup := func() {}
	if rdb, redisCleanup := platformredis.ConnectFromEnv(ctx, logger); rdb != nil {
		sessions = checkoutredis.NewSessionStore(rdb, time.Hour)
		cleanup = redisCleanup
	} else if db != nil {
		sessions = checkoutpostgres.NewSessionStore(db)
	} else {
		logger.Warn("worker using in-memory session store")
	}

	var gateway checkoutports.PaymentGateway = checkoutgateway.NewFake()
	if url := os.Getenv("PAYMENT_GATEWAY_URL"); url != "" {
		gateway = checkoutgateway.NewHTTPClient(url, os.Getenv("PAYMENT_GATEWAY_API_KEY"))
	} else {
		logger.Warn("PAYMENT_GATEWAY_URL not set, worker using fake gateway")
	}

	var catalog checkoutports.Catalog = checkoutmemory.NewCatalog()
	if url := os.Getenv("CATALOG_URL"); url != "" {
		catalog = checkoutcatalog.NewHTTPClient(url)
	} else {
		logger.Warn("CATALOG_URL not set, worker using empty in-memory catalog")
	}

	var logs fraudports.LogRepository = fraudmemory.NewLogRepository()
	if db != nil {
		logs = fraudpostgres.NewLogRepository(db)
	}
	sentinel := fraudapp.NewSentinel(logs, fraudledger.NewHistory(ordersRepo), fraudapp.WithLogger(logger))

	return checkoutapp.NewService(
		sessions,
		gateway,
		catalog,
		ledger,
		checkoutapp.WithLogger(logger),
		checkoutapp.WithConfirmedHook(sentinel),
		checkoutapp.WithConfirmedHook(checkoutnotifier.NewConfirmationHook(logger)),
	), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
