// Package inbox implements the Inbox Consumer: deduplicate a delivered
// PaymentRequest by order id, attempt the debit, and publish exactly one
// PaymentResult outbox row — all inside one transaction, so a crash after
// the debit but before the result is recorded is impossible.
package inbox

import (
	"context"
	"encoding/json"
	"fmt"

	domaininbox "github.com/cassiomorais/paymentpipeline/internal/domain/inbox"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
)

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DebitFunc mirrors ledger.DebitUseCase.Execute without importing the
// ledger package directly, keeping this use case independently testable.
type DebitFunc func(ctx context.Context, userID string, amount int64, orderID string) (bool, error)

// LockFunc attempts the optimization lock described in internal/redislock;
// ok=false simply means "proceed anyway, the DB dedup check still holds."
type LockFunc func(ctx context.Context, orderID string) (release func(), ok bool)

type HandlePaymentRequestUseCase struct {
	inboxRepo domaininbox.Repository
	outbox    outbox.Repository
	debit     DebitFunc
	txManager TransactionManager
	lock      LockFunc
}

func NewHandlePaymentRequestUseCase(
	inboxRepo domaininbox.Repository,
	outboxRepo outbox.Repository,
	debit DebitFunc,
	txManager TransactionManager,
	lock LockFunc,
) *HandlePaymentRequestUseCase {
	return &HandlePaymentRequestUseCase{
		inboxRepo: inboxRepo, outbox: outboxRepo, debit: debit, txManager: txManager, lock: lock,
	}
}

// Execute is safe to call any number of times for the same order id: once
// an inbox row exists for it, every subsequent delivery is a no-op.
func (uc *HandlePaymentRequestUseCase) Execute(ctx context.Context, req messages.PaymentRequest) error {
	if release, ok := uc.lock(ctx, req.OrderID); ok {
		defer release()
	}

	existing, err := uc.inboxRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return fmt.Errorf("check inbox dedup: %w", err)
	}
	if existing != nil {
		return nil
	}

	return uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		event := domaininbox.NewEvent(req.OrderID)
		if err := uc.inboxRepo.Insert(txCtx, event); err != nil {
			return fmt.Errorf("insert inbox event: %w", err)
		}

		success, debitErr := uc.debit(txCtx, req.UserID, req.Amount, req.OrderID)
		if debitErr != nil {
			if markErr := uc.inboxRepo.MarkFailed(txCtx, req.OrderID); markErr != nil {
				return markErr
			}
			return fmt.Errorf("debit: %w", debitErr)
		}

		message := "Payment successful"
		if !success {
			message = "Payment failed"
		}

		payload, err := json.Marshal(messages.PaymentResult{
			OrderID: req.OrderID,
			UserID:  req.UserID,
			Success: success,
			Message: message,
		})
		if err != nil {
			return fmt.Errorf("marshal payment result: %w", err)
		}
		if err := uc.outbox.Insert(txCtx, outbox.NewEntry(outbox.EventPaymentResult, payload)); err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}

		return uc.inboxRepo.MarkProcessed(txCtx, req.OrderID)
	})
}
