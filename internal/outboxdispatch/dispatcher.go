// Package outboxdispatch implements the one outbox-polling loop shared by
// every service that owns an outbox table (Orders publishes
// PAYMENT_REQUEST, Payments publishes PAYMENT_RESULT). The algorithm is
// identical regardless of which queue a row is destined for: select the
// oldest pending batch with FOR UPDATE SKIP LOCKED inside one transaction,
// attempt to publish each row, mark only the ones that succeeded, and
// commit regardless — an unpublished row simply stays PENDING for the
// next tick.
package outboxdispatch

import (
	"context"
	"errors"
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/cassiomorais/paymentpipeline/internal/repository/postgres"
	"github.com/cassiomorais/paymentpipeline/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// publishRetryCfg bounds the retries attempted for a single row within one
// tick: a few fast attempts to ride out a transient blip, nothing close to
// the tick-level backoff, since these retries run inside an open DB
// transaction holding FOR UPDATE SKIP LOCKED row locks.
var publishRetryCfg = retry.Config{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     500 * time.Millisecond,
	Multiplier:   2.0,
}

// PublishFunc delivers one outbox row's payload to the broker. Each service
// supplies its own: Orders publishes PAYMENT_REQUEST directly to a queue
// with exactly one consumer, Payments publishes PAYMENT_RESULT to a fanout
// exchange so every interested consumer gets its own copy.
type PublishFunc func(ctx context.Context, eventType outbox.EventType, payload []byte) error

type Dispatcher struct {
	repo       outbox.Repository
	txManager  *postgres.TxManager
	publish    PublishFunc
	metrics    *observability.Metrics
	logger     zerolog.Logger
	breaker    *gobreaker.CircuitBreaker[any]
	batchSize  int
	poll       time.Duration
	maxBackoff time.Duration
	backoff    time.Duration
}

type Config struct {
	BatchSize       int
	PollInterval    time.Duration
	MaxBackoff      time.Duration
	BreakerFailures uint32
}

func New(
	repo outbox.Repository,
	txManager *postgres.TxManager,
	publish PublishFunc,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Dispatcher {
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "outbox-publish",
		MaxRequests: 1,
		Timeout:     cfg.MaxBackoff,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.BreakerFailures
		},
	})
	return &Dispatcher{
		repo: repo, txManager: txManager, publish: publish,
		metrics: metrics, logger: logger, breaker: breaker,
		batchSize: cfg.BatchSize, poll: cfg.PollInterval, maxBackoff: cfg.MaxBackoff,
	}
}

// Run polls until ctx is cancelled. Each tick backs off exponentially (capped
// at maxBackoff) if the previous tick saw every publish fail, and resets to
// the configured poll interval as soon as one succeeds.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.backoff = d.poll
	ticker := time.NewTicker(d.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			allFailed, err := d.tick(ctx)
			if err != nil {
				d.logger.Error().Err(err).Msg("outbox dispatch tick failed")
			}
			d.adjustBackoff(ticker, allFailed)
		}
	}
}

func (d *Dispatcher) adjustBackoff(ticker *time.Ticker, allFailed bool) {
	if allFailed {
		next := d.backoff * 2
		if next > d.maxBackoff {
			next = d.maxBackoff
		}
		d.backoff = next
	} else {
		d.backoff = d.poll
	}
	ticker.Reset(d.backoff)
}

// tick processes one batch inside a single transaction. It returns
// allFailed=true only if the batch was non-empty and every publish attempt
// failed, which is what drives backoff.
func (d *Dispatcher) tick(ctx context.Context) (bool, error) {
	attempted, failed := 0, 0
	err := d.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		entries, err := d.repo.GetPending(txCtx, d.batchSize)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			attempted++
			_, pubErr := d.breaker.Execute(func() (any, error) {
				return nil, retry.Do(txCtx, publishRetryCfg, func() error {
					return d.publish(txCtx, entry.EventType, entry.Payload)
				})
			})
			if pubErr != nil {
				failed++
				d.metrics.OutboxRetries.WithLabelValues(string(entry.EventType)).Inc()
				if incErr := d.repo.IncrementRetry(txCtx, entry.ID); incErr != nil {
					return incErr
				}
				d.logger.Warn().Err(pubErr).Str("event_type", string(entry.EventType)).Str("id", entry.ID.String()).Msg("outbox publish failed, leaving pending")
				continue
			}
			if err := d.repo.MarkPublished(txCtx, entry.ID); err != nil {
				return err
			}
			d.metrics.OutboxPublished.WithLabelValues(string(entry.EventType)).Inc()
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return false, err
	}
	return attempted > 0 && failed == attempted, nil
}
