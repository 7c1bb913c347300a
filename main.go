package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	apporder "github.com/abdul-basit780/shop-ease-sub002/internal/application/order"
	apppayment "github.com/abdul-basit780/shop-ease-sub002/internal/application/payment"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/notification"
	"github.com/abdul-basit780/shop-ease-sub002/internal/infrastructure/gateway"
	"github.com/abdul-basit780/shop-ease-sub002/internal/infrastructure/id"
	"github.com/abdul-basit780/shop-ease-sub002/internal/infrastructure/kafka"
	"github.com/abdul-basit780/shop-ease-sub002/internal/infrastructure/notify"
	"github.com/abdul-basit780/shop-ease-sub002/internal/infrastructure/postgres"
	httppresentation "github.com/abdul-basit780/shop-ease-sub002/internal/presentation/http"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/config"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/logging"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.MustNew(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("migrate_failed", zap.Error(err))
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.NewWorkflow(registry)
	httpMetrics := metrics.NewHTTP(registry)

	var sink notification.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		notifier, err := kafka.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("kafka_connect_failed", zap.Error(err))
		}
		defer notifier.Close()
		sink = notifier
	} else {
		logger.Warn("kafka_disabled_no_brokers")
		sink = dropPublisher{}
	}

	dispatcher := notify.NewDispatcher(sink, logger)
	dispatcher.Start(ctx)

	paymentService := apppayment.NewService(
		gateway.NewCashGateway(),
		gateway.NewCardGateway(cfg.StripeKey, os.Getenv("CURRENCY")),
	)

	orderService := apporder.NewService(apporder.Deps{
		Tx:             db,
		Orders:         postgres.NewOrderStore(db),
		Payments:       postgres.NewPaymentStore(db),
		Ledger:         postgres.NewInventoryLedger(db),
		Carts:          postgres.NewCartStore(db),
		Catalog:        postgres.NewCatalogStore(db),
		Addresses:      postgres.NewAddressStore(db),
		Payment:        paymentService,
		IDs:            id.NewUUIDGenerator(),
		Notifier:       dispatcher,
		GatewayTimeout: cfg.GatewayTimeout,
		Metrics:        workflowMetrics,
	})

	handler := httppresentation.NewHandler(orderService, logger, httpMetrics, cfg.JWTSecret)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
	dispatcher.Stop(shutdownCtx)
}

// dropPublisher stands in when no brokers are configured (local dev).
type dropPublisher struct{}

func (dropPublisher) Publish(ctx context.Context, e notification.Event) error {
	_ = ctx
	_ = e
	return nil
}
