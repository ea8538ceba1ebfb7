package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/mintledger/internal/adapter/http"
	"github.com/iho/mintledger/internal/adapter/http/handler"
	"github.com/iho/mintledger/internal/adapter/http/middleware"
	"github.com/iho/mintledger/internal/adapter/oracle"
	postgresRepo "github.com/iho/mintledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/mintledger/internal/adapter/repository/redis"
	"github.com/iho/mintledger/internal/infrastructure/auth"
	"github.com/iho/mintledger/internal/infrastructure/config"
	"github.com/iho/mintledger/internal/infrastructure/eventpublisher"
	"github.com/iho/mintledger/internal/infrastructure/logger"
	"github.com/iho/mintledger/internal/infrastructure/metrics"
	"github.com/iho/mintledger/internal/infrastructure/postgres"
	"github.com/iho/mintledger/internal/infrastructure/redis"
	"github.com/iho/mintledger/internal/infrastructure/scheduler"
	"github.com/iho/mintledger/internal/usecase"
)

const rateLimitIdle = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, redis.Options{})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()
	clock := usecase.SystemClock{}
	idGen := postgresRepo.NewULIDGenerator()

	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log, m)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	investmentRepo := postgresRepo.NewInvestmentRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	codeRepo := postgresRepo.NewWithdrawalCodeRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	notificationRepo := postgresRepo.NewNotificationRepository(pool, txManager, idGen)
	retentionRepo := postgresRepo.NewRetentionRepository(pool)
	ledgerCheckRepo := postgresRepo.NewLedgerCheckRepository(pool)

	changeFeed := redisRepo.NewChangeFeed(redisClient, log)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	priceOracle := oracle.NewClient(oracle.Config{
		BaseURL: cfg.PriceOracleURL,
		Timeout: cfg.PriceOracleTimeout,
		Cache:   redisRepo.NewPriceCache(redisClient, cfg.PriceCacheTTL),
		Metrics: m,
		Logger:  log,
	})

	effects := usecase.Effects{
		Notifier: notificationRepo,
		Feed:     changeFeed,
		Metrics:  m,
		Logger:   log,
	}

	accountUC := usecase.NewAccountUseCase(accountRepo, investmentRepo, notificationRepo, changeFeed)
	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, accountRepo, investmentRepo, loanRepo, outboxRepo, idGen, clock, effects)
	accrualUC := usecase.NewAccrualUseCase(txManager, retrier, accountRepo, investmentRepo, outboxRepo, idGen, clock, effects,
		cfg.AccrualPageSize, cfg.AccrualConcurrency)
	codeUC := usecase.NewWithdrawalCodeUseCase(txManager, retrier, accountRepo, codeRepo, outboxRepo, idGen, clock, effects,
		cfg.WithdrawalCodeTTL)
	withdrawalUC := usecase.NewWithdrawalUseCase(txManager, retrier, accountRepo, codeRepo, withdrawalRepo, outboxRepo,
		priceOracle, idGen, clock, effects)
	retentionUC := usecase.NewRetentionUseCase(retentionRepo, cfg.RetentionRules(), cfg.RetentionBatchSize, clock, effects)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerCheckRepo, clock)

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Keep:       cfg.OutboxKeep,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, "withdraw", m)

	jobs := scheduler.New(log, 0)
	if err := registerJobs(jobs, cfg, jobSet{
		accrue:        func(ctx context.Context) error { _, err := accrualUC.AccrueAll(ctx); return err },
		sweep:         func(ctx context.Context) error { _, err := retentionUC.Sweep(ctx, false); return err },
		notifyExpired: func(ctx context.Context) error { _, err := codeUC.NotifyExpiredCodes(ctx); return err },
		cleanup: func(context.Context) error {
			limiter.Cleanup(rateLimitIdle)
			return nil
		},
	}); err != nil {
		return err
	}

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		log.Warn().Msg("authentication disabled, admin routes are open")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC),
		WithdrawalHandler: handler.NewWithdrawalHandler(withdrawalUC),
		AdminHandler:      handler.NewAdminHandler(ledgerUC, codeUC, accrualUC, retentionUC, reconciliationUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis":    handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		}),
		MetricsHandler:   promhttp.Handler(),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		WithdrawLimiter:  limiter,
		Logger:           log,
	})

	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	// Change streams only end with their request context; ledger writes run
	// detached and still commit.
	server.RegisterOnShutdown(cancelRequests)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return relay.Start(gctx)
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	jobs.Start()

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		jobs.Stop(shutdownCtx)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// jobSet holds the periodic jobs the server schedules.
type jobSet struct {
	accrue        scheduler.JobFunc
	sweep         scheduler.JobFunc
	notifyExpired scheduler.JobFunc
	cleanup       scheduler.JobFunc
}

func registerJobs(s *scheduler.Scheduler, cfg *config.Config, jobs jobSet) error {
	entries := []struct {
		name string
		spec string
		job  scheduler.JobFunc
	}{
		{"accrual", cfg.AccrualSchedule, jobs.accrue},
		{"retention_sweep", cfg.RetentionSchedule, jobs.sweep},
		{"code_expiry", cfg.CodeExpirySchedule, jobs.notifyExpired},
		{"rate_limit_cleanup", "@every 1h", jobs.cleanup},
	}

	for _, e := range entries {
		if err := s.Register(e.name, e.spec, e.job); err != nil {
			return err
		}
	}
	return nil
}

// newPublisher picks the outbox sink: RabbitMQ when AMQP_URL is set, the log
// otherwise. The returned func releases the broker connection.
func newPublisher(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		log.Info().Msg("AMQP_URL not set, relaying outbox events to the log")
		return eventpublisher.NewLogPublisher(log), func() {}, nil
	}

	p, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	log.Info().Str("exchange", cfg.AMQPExchange).Msg("relaying outbox events to rabbitmq")

	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rabbitmq publisher")
		}
	}, nil
}
