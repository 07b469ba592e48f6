package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/broker"
	"github.com/cassiomorais/paymentpipeline/internal/config"
	"github.com/cassiomorais/paymentpipeline/internal/httpapi"
	"github.com/cassiomorais/paymentpipeline/internal/notification"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"golang.org/x/sync/errgroup"
)

// cmd/notification holds no database of its own — it is the pipeline's
// fan-out tier: accept WebSocket subscriptions keyed by order id, and
// forward each PaymentResult off payment.results to whichever sessions are
// currently subscribed.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, nil).With().Str("service", "notification").Logger()
	metrics := observability.NewMetrics("notification", nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer("notification", cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Error().Err(err).Msg("failed to init tracer, continuing without tracing")
		} else {
			defer observability.Shutdown(context.Background(), tp)
		}
	}

	conn, err := broker.Connect(cfg.RabbitMQ.URL())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer conn.Close()

	hub := notification.NewHub()
	wsServer := notification.NewServer(hub, logger, metrics)
	resultConsumer := notification.NewResultConsumer(conn, hub, logger, metrics)

	router := httpapi.NewHealthRouter(nil)
	router.Handle("/ws", http.HandlerFunc(wsServer.ServeHTTP))

	addr := fmt.Sprintf("%s:%d", cfg.WSHost, cfg.WSPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("starting notification server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return resultConsumer.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down notification server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("notification service exited with error")
	}
	logger.Info().Msg("notification service stopped")
}
