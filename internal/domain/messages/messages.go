// Package messages defines the two JSON wire shapes carried through the
// broker: PaymentRequest on payment.requests and PaymentResult on
// payment.results. Both are also the payload stored in an outbox row, so
// they round-trip through json.Marshal/Unmarshal identically whether read
// from Postgres or from an AMQP delivery body.
package messages

// PaymentRequest is emitted by the Order Writer's outbox entry and
// consumed by the Payments service's Inbox Consumer.
type PaymentRequest struct {
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	Amount  int64   `json:"amount"` // cents
}

// PaymentResult is emitted by the Inbox Consumer's outbox entry and
// consumed by both the Order Status Projector and the Notification Hub's
// broker consumer.
type PaymentResult struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
