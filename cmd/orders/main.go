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

	appOrder "github.com/cassiomorais/paymentpipeline/internal/application/order"
	"github.com/cassiomorais/paymentpipeline/internal/broker"
	"github.com/cassiomorais/paymentpipeline/internal/config"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
	"github.com/cassiomorais/paymentpipeline/internal/httpapi"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/cassiomorais/paymentpipeline/internal/outboxdispatch"
	"github.com/cassiomorais/paymentpipeline/internal/repository/postgres"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// cmd/orders is the Order Writer: it accepts orders over HTTP, records each
// one with its PAYMENT_REQUEST outbox entry in one transaction, dispatches
// that outbox to the broker, and projects PaymentResults arriving back on
// payment.results onto the order's status.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, nil).With().Str("service", "orders").Logger()
	metrics := observability.NewMetrics("orders", nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer("orders", cfg.Observability.JaegerEndpoint)
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

	orderRepo := postgres.NewOrderRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)

	createOrderUC := appOrder.NewCreateOrderUseCase(orderRepo, outboxRepo, txManager)
	queries := appOrder.NewQueries(orderRepo)
	projector := appOrder.NewStatusProjector(orderRepo)

	orderController := httpapi.NewOrderController(createOrderUC, queries)
	router := httpapi.NewOrdersRouter(httpapi.OrdersRouterDeps{
		Pool:               pool,
		Metrics:            metrics,
		OrderController:    orderController,
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
			return conn.Publish(ctx, broker.QueuePaymentRequests, payload)
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
		logger.Info().Str("addr", srv.Addr).Msg("starting orders HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return dispatcher.Run(gCtx)
	})

	g.Go(func() error {
		return runResultProjection(gCtx, conn, projector, logger)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down orders HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("orders service exited with error")
	}
	logger.Info().Msg("orders service stopped")
}

// runResultProjection drives the Order Status Projector off payment.results.
// This is the component original_source never wires to a consumer: without
// it an order would sit in NEW forever no matter what the Payments service
// decided.
func runResultProjection(ctx context.Context, conn *broker.Conn, projector *appOrder.StatusProjector, logger zerolog.Logger) error {
	deliveries, err := conn.Consume(ctx, broker.QueueResultsOrdersProjector, "orders-projector")
	if err != nil {
		return fmt.Errorf("consume payment.results: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("payment.results delivery channel closed")
			}
			var result messages.PaymentResult
			if err := json.Unmarshal(d.Body, &result); err != nil {
				logger.Error().Err(err).Msg("malformed payment result, discarding")
				d.Nack(false, false)
				continue
			}
			if err := projector.Apply(ctx, result); err != nil {
				logger.Error().Err(err).Str("order_id", result.OrderID).Msg("failed to project payment result onto order")
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}
}
