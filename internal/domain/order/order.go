// Package order implements the Order aggregate: creation by the Order
// Writer, and the one permitted transition out of NEW, driven solely by a
// PaymentResult arriving off the payment.results queue.
package order

import (
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/google/uuid"
)

type Status string

const (
	StatusNew        Status = "NEW"
	StatusFinished   Status = "FINISHED"
	StatusCancelled  Status = "CANCELLED"
)

type Order struct {
	ID          uuid.UUID
	UserID      string
	Amount      int64 // cents
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New validates and constructs an order in status NEW.
func New(userID string, amount int64, description string) (*Order, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "cannot be empty")
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	now := time.Now()
	return &Order{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TransitionTo moves the order out of NEW. Invariant 6: no order status
// transitions out of NEW except in reaction to a PaymentResult, and the
// only two destinations are FINISHED (payment succeeded) and CANCELLED
// (payment failed). Any other request, including a second attempt to
// transition an already-settled order, is rejected.
func (o *Order) TransitionTo(next Status) error {
	if o.Status != StatusNew {
		return apperrors.ErrIllegalTransition
	}
	if next != StatusFinished && next != StatusCancelled {
		return apperrors.ErrIllegalTransition
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

// StatusForResult maps a payment outcome to the order status the projector
// applies.
func StatusForResult(success bool) Status {
	if success {
		return StatusFinished
	}
	return StatusCancelled
}
