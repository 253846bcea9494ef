package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	kafkasink "github.com/iho/txledger/internal/adapter/queue/kafka"
	"github.com/iho/txledger/internal/adapter/queue/logsink"
	"github.com/iho/txledger/internal/adapter/queue/rabbitmq"
	postgresRepo "github.com/iho/txledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/txledger/internal/adapter/repository/redis"
	amqpinfra "github.com/iho/txledger/internal/infrastructure/amqp"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/infrastructure/postgres"
	"github.com/iho/txledger/internal/infrastructure/redis"
	"github.com/iho/txledger/internal/infrastructure/scheduler"
	"github.com/iho/txledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "txledger-worker"}).
		With().Str("worker_id", cfg.WorkerID).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("worker stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClientWithConfig(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Connect to RabbitMQ
	conn, err := amqpinfra.Dial(ctx, cfg.AMQPURL, cfg.AMQPDialTimeout, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	consumeCh, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consume channel: %w", err)
	}
	publishCh, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open publish channel: %w", err)
	}

	deadLetters, closeSink, err := newDeadLetterPublisher(cfg, publishCh, log)
	if err != nil {
		return err
	}
	defer closeSink()

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool, postgresRepo.NewRetrier(log))
	attempts := redisRepo.NewAttemptTracker(redisClient, cfg.RetryAttemptTTL)

	// Initialize use cases
	processor := usecase.NewProcessor(txManager, accountRepo, transactionRepo,
		usecase.NewRandomDelayer(cfg.ProcessingDelayMax), cfg.WorkerID, log)
	router := usecase.NewErrorRouter(deadLetters, cfg.WorkerID, log, m)
	retry := usecase.NewRetryPolicy(attempts, cfg.RetryMaxAttempts, cfg.RetryInitialInterval, cfg.RetryMaxInterval, log)
	worker := usecase.NewWorker(processor, router, retry, cfg.WorkerID, log, m).
		WithSettleTimeout(cfg.DatabaseTimeout)
	reconciliation := usecase.NewReconciliationUseCase(ledgerRepo, log, m)

	// Scheduled reconciliation
	sched := scheduler.New(log)
	if cfg.ReconcileSchedule != "" {
		if err := sched.Add("reconciliation", cfg.ReconcileSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.DatabaseTimeout)
			defer cancel()
			reconciliation.Run(jobCtx)
		}); err != nil {
			return err
		}
	}
	sched.Start()

	// Metrics endpoint
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("serving metrics")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	consumer := rabbitmq.NewConsumer(consumeCh, worker, rabbitmq.ConsumerConfig{
		Queue:          cfg.TransactionQueue,
		ConsumerTag:    cfg.WorkerID,
		Prefetch:       cfg.Prefetch,
		MessageTimeout: cfg.DatabaseTimeout,
	}, log)

	runErr := consumer.Run(ctx)

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("scheduler did not stop in time")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("metrics server forced to shutdown")
	}

	return runErr
}

// newDeadLetterPublisher builds the configured dead-letter sink and a func
// that releases it.
func newDeadLetterPublisher(cfg *config.Config, ch rabbitmq.Channel, log zerolog.Logger) (usecase.DeadLetterPublisher, func(), error) {
	switch cfg.DeadLetterSink {
	case config.SinkAMQP:
		p := rabbitmq.NewPublisher(ch, "", cfg.ErrorQueue)
		if err := p.Declare(); err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	case config.SinkKafka:
		sink := kafkasink.NewDeadLetterSink(kafkasink.NewWriter(cfg.KafkaBrokers, cfg.KafkaDeadLetterTopic))
		return sink, func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close kafka writer")
			}
		}, nil
	case config.SinkLog:
		return logsink.New(log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown dead-letter sink %q", cfg.DeadLetterSink)
	}
}
