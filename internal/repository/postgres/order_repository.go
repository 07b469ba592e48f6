package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *OrderRepository) scanOrder(s scanner) (*order.Order, error) {
	o := &order.Order{}
	var status, amountStr string
	err := s.Scan(&o.ID, &o.UserID, &amountStr, &o.Description, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = order.Status(status)
	if o.Amount, err = numericStringToCents(amountStr); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO orders (id, user_id, amount, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.UserID, centsToNumericString(o.Amount), o.Description, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.scanOrder(r.db(ctx).QueryRow(ctx,
		`SELECT id, user_id, amount, description, status, created_at, updated_at FROM orders WHERE id = $1`, id))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, user_id, amount, description, status, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus is used only by the Order Status Projector, after
// order.Order.TransitionTo has already validated the transition in memory.
// The WHERE status = 'NEW' clause is a second, SQL-level guard against the
// same invariant: it catches a race the in-memory check can't, where two
// deliveries for the same order are applied concurrently and both pass
// TransitionTo against the row each loaded before either wrote back.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = 'NEW'`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrIllegalTransition
	}
	return nil
}
