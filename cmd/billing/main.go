package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/billing"
	"github.com/asemenkov/ecomm-backend/internal/billing/ledger"
	"github.com/asemenkov/ecomm-backend/internal/broker/rabbit"
	"github.com/asemenkov/ecomm-backend/internal/config"
	"github.com/asemenkov/ecomm-backend/internal/observability"
	"github.com/asemenkov/ecomm-backend/internal/pkg/retry"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	led, err := ledger.Open(cfg.Billing.LedgerPath, cfg.Billing.DedupCap)
	if err != nil {
		logger.Fatal("open ledger", zap.Error(err))
	}
	defer func() { _ = led.Close() }()

	var broker *rabbit.Client
	if err := retry.Do(ctx, cfg.Retry, func() error {
		var derr error
		broker, derr = rabbit.Dial(cfg.Rabbit.URI, logger)
		return derr
	}); err != nil {
		logger.Fatal("rabbit dial", zap.Error(err))
	}
	defer func() { _ = broker.Close() }()

	metrics := observability.NewInmem(1000)
	handler := billing.NewConsumer(led, logger, metrics)

	consumer, err := rabbit.NewConsumer(broker, cfg.Rabbit.BillingQueue, cfg.Rabbit.NoAck, handler.Handle, logger)
	if err != nil {
		logger.Fatal("rabbit consumer", zap.Error(err))
	}

	logger.Info("billing consumer started",
		zap.String("queue", cfg.Rabbit.BillingQueue),
		zap.Bool("no_ack", cfg.Rabbit.NoAck),
	)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer", zap.Error(err))
	}
	logger.Info("billing consumer stopped")
}
