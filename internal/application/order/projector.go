package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	domainorder "github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/google/uuid"
)

// StatusProjector is the component original_source leaves unwired: it
// consumes payment.results and applies the one transition Invariant 6
// requires. Without it nothing ever moves an order out of NEW.
type StatusProjector struct {
	orders domainorder.Repository
}

func NewStatusProjector(orders domainorder.Repository) *StatusProjector {
	return &StatusProjector{orders: orders}
}

// Apply updates the order named by result.OrderID. A redelivered result for
// an order that has already settled is not an error — TransitionTo rejects
// a second transition out of NEW, and that rejection is swallowed as a
// harmless no-op rather than propagated.
func (p *StatusProjector) Apply(ctx context.Context, result messages.PaymentResult) error {
	id, err := uuid.Parse(result.OrderID)
	if err != nil {
		return fmt.Errorf("parse order id %q: %w", result.OrderID, err)
	}

	o, err := p.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("load order %s: %w", id, err)
	}

	target := domainorder.StatusForResult(result.Success)
	if err := o.TransitionTo(target); err != nil {
		if errors.Is(err, apperrors.ErrIllegalTransition) {
			return nil
		}
		return err
	}

	err = p.orders.UpdateStatus(ctx, id, target)
	if errors.Is(err, apperrors.ErrIllegalTransition) {
		// Lost a race against a concurrent projector applying the same
		// result (or a second delivery processed between the load above
		// and this write) — the SQL-level WHERE status = 'NEW' guard
		// caught what the in-memory check above couldn't see.
		return nil
	}
	return err
}
