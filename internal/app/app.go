package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/httpapi"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
	"github.com/vladislavdragonenkov/checkout/internal/notification"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/uri"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает зависимости и держит сервис до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if storage.Store != nil {
			_ = storage.Store.Close()
		}
	}()

	checkoutMetrics := metrics.NewCheckoutMetrics()

	notifier := notification.NewPublisher(
		cfg.NotificationURL,
		cfg.NotificationTimeout,
		checkoutMetrics,
		logger.WithField("component", "notification-publisher"),
	)
	if cfg.NotificationURL == "" {
		logger.Warn("notification url is not configured, order notifications disabled")
	}

	// Очередь склада опциональна: без брокеров сервис продолжает работать,
	// как и с недоступной Kafka (отправка best-effort).
	var fulfillment *kafka.FulfillmentPublisher
	if cfg.KafkaBrokers != "" {
		brokers := splitBrokers(cfg.KafkaBrokers)
		fulfillment = kafka.NewFulfillmentPublisher(
			brokers,
			cfg.FulfillmentTopic,
			checkoutMetrics,
			logger.WithField("component", "fulfillment-publisher"),
		)
		logger.WithFields(log.Fields{
			"brokers": brokers,
			"topic":   cfg.FulfillmentTopic,
		}).Info("fulfillment publisher initialized")
	} else {
		logger.Warn("kafka brokers are not configured, fulfillment dispatch disabled")
	}

	orchestrator := newOrchestrator(storage, notifier, fulfillment, cfg, logger)

	apiServer := httpapi.NewServer(orchestrator, storage.Orders, logger.WithField("layer", "http"))
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: apiServer.Router()}

	healthHandler := healthcheck.NewHandler(version.String())
	if storage.Store != nil {
		store := storage.Store
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return store.Ping(context.Background())
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("checkout API слушает %s", cfg.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(httpSrv, logger)
		drainDispatch(orchestrator, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		drainDispatch(orchestrator, logger)
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newOrchestrator собирает оркестратор оформления из набора хранилищ и издателей.
func newOrchestrator(
	storage *storageSet,
	notifier *notification.Publisher,
	fulfillment *kafka.FulfillmentPublisher,
	cfg Config,
	logger *log.Entry,
) checkout.Orchestrator {
	pictures := uri.NewComposer(cfg.PictureBaseURL)
	checkoutLogger := logger.WithField("component", "checkout")

	if fulfillment == nil {
		return checkout.NewOrchestrator(
			storage.Baskets, storage.Catalog, storage.Orders,
			notifier, nil, pictures, checkoutLogger,
		)
	}
	return checkout.NewOrchestrator(
		storage.Baskets, storage.Catalog, storage.Orders,
		notifier, fulfillment, pictures, checkoutLogger,
	)
}

// drainDispatch дожидается фоновых рассылок в пределах таймаута.
func drainDispatch(orchestrator checkout.Orchestrator, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := orchestrator.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("publisher dispatch drain exceeded timeout")
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus
// вместе с health-пробами.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

// splitBrokers разбирает CSV-список брокеров, отбрасывая пустые элементы.
func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
