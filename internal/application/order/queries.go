package order

import (
	"context"

	domainorder "github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/google/uuid"
)

type Queries struct {
	orders domainorder.Repository
}

func NewQueries(orders domainorder.Repository) *Queries {
	return &Queries{orders: orders}
}

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (*domainorder.Order, error) {
	return q.orders.GetByID(ctx, id)
}

func (q *Queries) ListByUser(ctx context.Context, userID string) ([]*domainorder.Order, error) {
	return q.orders.ListByUser(ctx, userID)
}
