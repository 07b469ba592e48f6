package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/broker"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/rs/zerolog"
)

// ResultConsumer drains payment.results and fans each result out through
// the Hub. It never writes to Postgres — this service owns no durable
// state of its own, only the in-memory subscription map.
type ResultConsumer struct {
	conn    *broker.Conn
	hub     *Hub
	logger  zerolog.Logger
	metrics *observability.Metrics
}

func NewResultConsumer(conn *broker.Conn, hub *Hub, logger zerolog.Logger, metrics *observability.Metrics) *ResultConsumer {
	return &ResultConsumer{conn: conn, hub: hub, logger: logger, metrics: metrics}
}

type orderUpdate struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *ResultConsumer) Run(ctx context.Context) error {
	deliveries, err := c.conn.Consume(ctx, broker.QueueResultsNotification, "notification")
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
				c.logger.Error().Err(err).Msg("malformed payment result, discarding")
				d.Nack(false, false)
				continue
			}

			status := "CANCELLED"
			if result.Success {
				status = "FINISHED"
			}
			payload, err := json.Marshal(orderUpdate{
				Type: "order_update", OrderID: result.OrderID, Status: status, Message: result.Message,
			})
			if err != nil {
				c.logger.Error().Err(err).Msg("marshal order update")
				d.Nack(false, true)
				continue
			}

			delivered := c.hub.Notify(result.OrderID, payload)
			if delivered == 0 {
				c.metrics.WSNotificationsDropped.Inc()
				c.logger.Info().Str("order_id", result.OrderID).Msg("payment result had no subscriber, discarding")
			} else {
				c.metrics.WSNotificationsSent.WithLabelValues("ok").Add(float64(delivered))
			}
			d.Ack(false)
		}
	}
}
