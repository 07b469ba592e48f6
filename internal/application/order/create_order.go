// Package order implements the Order Writer: create an order and its
// PAYMENT_REQUEST outbox entry atomically, and read paths for the HTTP API.
package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	domainorder "github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
)

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateOrderRequest struct {
	UserID      string
	Amount      int64
	Description string
}

type CreateOrderUseCase struct {
	orders    domainorder.Repository
	outbox    outbox.Repository
	txManager TransactionManager
}

func NewCreateOrderUseCase(orders domainorder.Repository, outboxRepo outbox.Repository, txManager TransactionManager) *CreateOrderUseCase {
	return &CreateOrderUseCase{orders: orders, outbox: outboxRepo, txManager: txManager}
}

// Execute persists the order and its outbound PaymentRequest in one
// transaction, so a crash between the two can never happen: either both
// rows exist or neither does.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*domainorder.Order, error) {
	o, err := domainorder.New(req.UserID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(messages.PaymentRequest{
		OrderID: o.ID.String(),
		UserID:  o.UserID,
		Amount:  o.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}
	entry := outbox.NewEntry(outbox.EventPaymentRequest, payload)

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.orders.Create(txCtx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := uc.outbox.Insert(txCtx, entry); err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
