// Package broker wraps amqp091-go with the durable-queue, persistent-delivery
// shape the original system relies on: every queue this pipeline touches
// is declared durable, and every publish is marked persistent, so a broker
// restart does not drop in-flight work. Consume hands back a delivery
// channel bound to the caller's context; consumers select on that channel
// and ctx.Done() together, so cooperative cancellation on shutdown is cheap
// without a polling loop.
package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// QueuePaymentRequests has exactly one consumer (the Payments Inbox
	// Consumer), so it is published to directly over the default exchange.
	QueuePaymentRequests = "payment.requests"

	// ExchangeResults fans every PAYMENT_RESULT out to all interested
	// consumers. A single queue cannot serve both the Order Status
	// Projector and the Notification Hub: two independent basic.consume
	// subscriptions on one queue compete round-robin, so each result
	// would reach only one of them. A fanout exchange with one bound
	// queue per consumer gives each its own full copy of the stream.
	ExchangeResults = "payment.results"

	QueueResultsOrdersProjector = "payment.results.orders-projector"
	QueueResultsNotification    = "payment.results.notification"
)

// Conn owns the AMQP connection/channel pair for one process.
type Conn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials the broker and opens one channel, declaring every
// queue/exchange this system uses so whichever service comes up first
// doesn't race the topology into existence.
func Connect(url string) (*Conn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(QueuePaymentRequests, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", QueuePaymentRequests, err)
	}

	if err := ch.ExchangeDeclare(ExchangeResults, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeResults, err)
	}
	for _, q := range []string{QueueResultsOrdersProjector, QueueResultsNotification} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, "", ExchangeResults, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind queue %s to %s: %w", q, ExchangeResults, err)
		}
	}

	return &Conn{conn: conn, ch: ch}, nil
}

func (c *Conn) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// Publish sends body to queue as a persistent message over the default
// exchange. Callers wrap this with a circuit breaker
// (internal/outboxdispatch) since a down broker should not be retried
// inline at full speed.
func (c *Conn) Publish(ctx context.Context, queue string, body []byte) error {
	return c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// PublishFanout sends body as a persistent message to exchange with no
// routing key, reaching every queue bound to it. Used for PAYMENT_RESULT
// so both the Order Status Projector and the Notification Hub each get
// their own copy of every result.
func (c *Conn) PublishFanout(ctx context.Context, exchange string, body []byte) error {
	return c.ch.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume returns a delivery channel for queue. Deliveries must be
// acked/nacked by the caller; an unacked message is redelivered on
// reconnect, which is exactly how the Inbox Consumer gets its
// at-least-once guarantee.
func (c *Conn) Consume(ctx context.Context, queue, consumerTag string) (<-chan amqp.Delivery, error) {
	return c.ch.ConsumeWithContext(ctx, queue, consumerTag, false, false, false, false, nil)
}
