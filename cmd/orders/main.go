package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/broker/rabbit"
	"github.com/asemenkov/ecomm-backend/internal/cache"
	"github.com/asemenkov/ecomm-backend/internal/config"
	"github.com/asemenkov/ecomm-backend/internal/httpapi"
	"github.com/asemenkov/ecomm-backend/internal/observability"
	"github.com/asemenkov/ecomm-backend/internal/orders"
	"github.com/asemenkov/ecomm-backend/internal/pkg/breaker"
	"github.com/asemenkov/ecomm-backend/internal/pkg/retry"
	"github.com/asemenkov/ecomm-backend/internal/store/postgres"
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

	var pool *pgxpool.Pool
	if err := retry.Do(ctx, cfg.Retry, func() error {
		var derr error
		pool, derr = postgres.Connect(ctx, cfg.DSN())
		return derr
	}); err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	var broker *rabbit.Client
	if err := retry.Do(ctx, cfg.Retry, func() error {
		var derr error
		broker, derr = rabbit.Dial(cfg.Rabbit.URI, logger)
		return derr
	}); err != nil {
		logger.Fatal("rabbit dial", zap.Error(err))
	}
	defer func() { _ = broker.Close() }()

	publisher, err := rabbit.NewPublisher(broker, cfg.Rabbit.BillingQueue, cfg.Rabbit.PublishTimeout, logger)
	if err != nil {
		logger.Fatal("rabbit publisher", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	metrics := observability.NewInmem(1000)

	redisBackend := cache.NewRedisBackend(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisBackend.Close() }()
	orderCache := cache.New(redisBackend, breaker.New(cfg.Breaker), cfg.Redis.TTL, logger, metrics)

	repo := postgres.NewOrderRepository(pool)
	svc := orders.NewService(repo, publisher, orderCache, cfg.Rabbit.BillingQueue, cfg.SagaTimeout, logger, metrics)

	handler := httpapi.NewOrdersHandler(svc, orderCache, cfg.Redis.TTL, logger)
	if err := httpapi.Run(ctx, cfg.HTTP.OrdersAddr, handler.Router(metrics), logger); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
	logger.Info("orders service stopped")
}
