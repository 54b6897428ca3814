package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/worker"
)

func runEvents(ctx context.Context, a *app, args []string) error {
	if _, _, err := subcommand(a.errOut, "events", args, "watch"); err != nil {
		return err
	}
	brokers := a.cfg.Brokers()
	if len(brokers) == 0 {
		return errors.New("KAFKA_BROKERS is not set")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := messaging.NewConsumer(brokers, a.cfg.EventsTopic, a.cfg.EventsGroup, a.log)
	defer func() { _ = consumer.Close() }()

	handler := worker.NewReviewHandler(a.notifier, a.log)
	a.log.Info("watching storefront events", "brokers", brokers, "topic", a.cfg.EventsTopic)
	a.notifier.Info("Watching storefront events, press Ctrl+C to stop")

	return consumer.Consume(ctx, handler.Handle)
}
