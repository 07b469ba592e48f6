package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appInbox "github.com/cassiomorais/paymentpipeline/internal/application/inbox"
	appLedger "github.com/cassiomorais/paymentpipeline/internal/application/ledger"
	"github.com/cassiomorais/paymentpipeline/internal/broker"
	"github.com/cassiomorais/paymentpipeline/internal/config"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
	"github.com/cassiomorais/paymentpipeline/internal/httpapi"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/cassiomorais/paymentpipeline/internal/outboxdispatch"
	"github.com/cassiomorais/paymentpipeline/internal/redislock"
	"github.com/cassiomorais/paymentpipeline/internal/repository/postgres"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// lockTTL bounds how long the Inbox Consumer's Redis optimization lock is
// held: long enough to cover one debit transaction, short enough that a
// crashed holder doesn't wedge the key past a redelivery's retry.
const lockTTL = 10 * time.Second

// cmd/payments is the Payments service: it drains payment.requests, debits
// the named account exactly once per order id (the Inbox Consumer), and
// publishes the outcome back through its own outbox.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, nil).With().Str("service", "payments").Logger()
	metrics := observability.NewMetrics("payments", nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer("payments", cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Error().Err(err).Msg("failed to init tracer, continuing without tracing")
		} else {
			defer observability.Shutdown(context.Background(), tp)
		}
	}

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	conn, err := broker.Connect(cfg.RabbitMQ.URL())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer conn.Close()

	redisClient, err := redislock.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	inboxRepo := postgres.NewInboxRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)

	createAccountUC := appLedger.NewCreateAccountUseCase(accountRepo)
	depositUC := appLedger.NewDepositUseCase(accountRepo)
	debitUC := appLedger.NewDebitUseCase(accountRepo)
	ledgerQueries := appLedger.NewQueries(accountRepo)

	handlePaymentRequestUC := appInbox.NewHandlePaymentRequestUseCase(
		inboxRepo, outboxRepo, debitUC.Execute, txManager,
		func(ctx context.Context, orderID string) (func(), bool) {
			lock := redislock.New(redisClient, "inbox:"+orderID, lockTTL)
			acquired, err := lock.Acquire(ctx)
			if err != nil || !acquired {
				return nil, false
			}
			return func() { lock.Release(ctx) }, true
		},
	)

	accountController := httpapi.NewAccountController(createAccountUC, depositUC, ledgerQueries)
	router := httpapi.NewPaymentsRouter(httpapi.PaymentsRouterDeps{
		Pool:               pool,
		Metrics:            metrics,
		AccountController:  accountController,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 300,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServicePort),
		Handler: router,
	}

	dispatcher := outboxdispatch.New(
		outboxRepo, txManager,
		func(ctx context.Context, _ outbox.EventType, payload []byte) error {
			return conn.PublishFanout(ctx, broker.ExchangeResults, payload)
		},
		metrics, logger, outboxdispatch.Config{
			BatchSize:       cfg.Dispatcher.BatchSize,
			PollInterval:    cfg.Dispatcher.PollInterval,
			MaxBackoff:      cfg.Dispatcher.MaxBackoff,
			BreakerFailures: cfg.Dispatcher.BreakerFailures,
		},
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("starting payments HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return dispatcher.Run(gCtx)
	})

	g.Go(func() error {
		return runPaymentRequestConsumer(gCtx, conn, handlePaymentRequestUC, metrics, logger)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down payments HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("payments service exited with error")
	}
	logger.Info().Msg("payments service stopped")
}

// runPaymentRequestConsumer is the Inbox Consumer's delivery loop: one
// HandlePaymentRequestUseCase.Execute per delivery, acked only once that
// call returns without error. A duplicate delivery returns without error
// and is acked; a failed delivery is nacked with requeue=true — the use
// case's own dedup check makes a redelivery safe.
func runPaymentRequestConsumer(
	ctx context.Context,
	conn *broker.Conn,
	uc *appInbox.HandlePaymentRequestUseCase,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) error {
	deliveries, err := conn.Consume(ctx, broker.QueuePaymentRequests, "payments-inbox")
	if err != nil {
		return fmt.Errorf("consume payment.requests: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("payment.requests delivery channel closed")
			}
			var req messages.PaymentRequest
			if err := json.Unmarshal(d.Body, &req); err != nil {
				logger.Error().Err(err).Msg("malformed payment request, discarding")
				metrics.InboxProcessed.WithLabelValues("malformed").Inc()
				d.Nack(false, false)
				continue
			}

			if err := uc.Execute(ctx, req); err != nil {
				logger.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to handle payment request")
				metrics.InboxProcessed.WithLabelValues("error").Inc()
				metrics.LedgerDebits.WithLabelValues("error").Inc()
				d.Nack(false, true)
				continue
			}

			metrics.InboxProcessed.WithLabelValues("ok").Inc()
			metrics.LedgerDebits.WithLabelValues("ok").Inc()
			d.Ack(false)
		}
	}
}
