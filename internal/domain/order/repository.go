package order

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus applies the NEW -> {FINISHED,CANCELLED} transition. It is
	// the only mutation the Order Status Projector performs.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
