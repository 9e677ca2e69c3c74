package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledger/internal/adapter/http"
	"github.com/iho/ledger/internal/adapter/http/handler"
	"github.com/iho/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledger/internal/adapter/repository/redis"
	"github.com/iho/ledger/internal/infrastructure/config"
	"github.com/iho/ledger/internal/infrastructure/eventpublisher"
	"github.com/iho/ledger/internal/infrastructure/logger"
	"github.com/iho/ledger/internal/infrastructure/metrics"
	"github.com/iho/ledger/internal/infrastructure/postgres"
	"github.com/iho/ledger/internal/infrastructure/redis"
	"github.com/iho/ledger/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseAutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL:      cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		LockTimeout:      cfg.DatabaseLockTimeout,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClientWithConfig(ctx, redis.ClientConfig{
			URL:      cfg.RedisURL,
			PoolSize: cfg.RedisPoolSize,
			Timeout:  cfg.RedisTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen)
	accountUC.SetLogger(logger)
	accountUC.SetMetrics(m)

	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, entryRepo, outboxRepo, idGen)
	transactionUC.SetLogger(logger)
	transactionUC.SetMetrics(m)

	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		MetricsHandler:     promhttp.Handler(),
		Logger:             logger,
	}

	var redisPinger handler.Pinger
	if redisClient != nil {
		transactionUC.SetCache(redisRepo.NewCache(redisClient), cfg.CacheTTL)
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
		redisPinger = handler.RedisPinger(redisClient)
	}
	routerCfg.HealthHandler = handler.NewHealthHandler(pool, redisPinger)

	if limiter := newRateLimiter(cfg, m); limiter != nil {
		routerCfg.RateLimiter = limiter
		go cleanupLimiters(ctx, limiter)
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	outbox := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Observer:   m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go outbox.Start(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newPublisher picks the outbox sink: AMQP when configured, the log otherwise.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func() error, error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(logger), func() error { return nil }, nil
	}

	p, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to amqp: %w", err)
	}
	logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing outbox events to amqp")
	return p, p.Close, nil
}

func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if m != nil {
		limiter.OnReject(m.RateLimited)
	}
	return limiter
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterIdleTimeout)
		}
	}
}
