package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/domain/inbox"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InboxRepository implements inbox.Repository, keyed by order id rather
// than a generated primary key — that's what makes a redelivery detectable
// with a single lookup before any debit is attempted.
type InboxRepository struct {
	pool *pgxpool.Pool
}

func NewInboxRepository(pool *pgxpool.Pool) *InboxRepository {
	return &InboxRepository{pool: pool}
}

func (r *InboxRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *InboxRepository) GetByOrderID(ctx context.Context, orderID string) (*inbox.Event, error) {
	e := &inbox.Event{}
	var status string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT order_id, status, retry_count, created_at, updated_at FROM inbox_events WHERE order_id = $1`,
		orderID,
	).Scan(&e.OrderID, &status, &e.RetryCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbox event: %w", err)
	}
	e.Status = inbox.Status(status)
	return e, nil
}

func (r *InboxRepository) Insert(ctx context.Context, e *inbox.Event) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO inbox_events (order_id, status, retry_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.OrderID, string(e.Status), e.RetryCount, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inbox event: %w", err)
	}
	return nil
}

func (r *InboxRepository) MarkProcessed(ctx context.Context, orderID string) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE inbox_events SET status = 'PROCESSED', updated_at = now() WHERE order_id = $1`, orderID,
	)
	if err != nil {
		return fmt.Errorf("mark inbox processed: %w", err)
	}
	return nil
}

func (r *InboxRepository) MarkFailed(ctx context.Context, orderID string) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE inbox_events SET status = 'FAILED', retry_count = retry_count + 1, updated_at = now() WHERE order_id = $1`, orderID,
	)
	if err != nil {
		return fmt.Errorf("mark inbox failed: %w", err)
	}
	return nil
}
