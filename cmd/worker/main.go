package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/logger"
	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/notify"
	"github.com/joao-fontenele/storefront/internal/telemetry"
	"github.com/joao-fontenele/storefront/internal/worker"
)

const serviceName = "storefront-review-worker"

// The review worker tails the storefront events topic and logs one
// notification per receipt upload or payment decision, for admins who keep
// the back office open.
func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New(logger.Options{Service: serviceName}).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		log.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, "0.1.0", cfg.OTLPEndpoint, cfg.TracingEnabled)
	if err != nil {
		log.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, "0.1.0")
	if err != nil {
		log.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           metricsHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	defer func() { _ = metricsServer.Close() }()

	consumer := messaging.NewConsumer(brokers, cfg.EventsTopic, cfg.EventsGroup, log,
		messaging.WithStartOffset(kafka.LastOffset))
	defer func() { _ = consumer.Close() }()

	center := notify.NewCenter(notify.NewLogSink(log))
	handler := worker.NewReviewHandler(center, log)

	log.Info("starting review worker", "brokers", brokers, "topic", cfg.EventsTopic, "group", cfg.EventsGroup)

	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		log.Error("consumer error", "error", err)
		os.Exit(1)
	}
	log.Info("consumer stopped")
}
