package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxRepository implements outbox.Repository. One instance per service
// (Orders, Payments), each pointed at that service's own outbox table.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *OutboxRepository) Insert(ctx context.Context, entry *outbox.Entry) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, string(entry.EventType), entry.Payload, string(entry.Status), entry.RetryCount, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// GetPending selects the oldest pending rows, skipping any another
// dispatcher instance already has locked, per Invariant that publish order
// follows insertion order as closely as a single poller can manage.
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, event_type, payload, status, retry_count, created_at, published_at
		 FROM outbox_events WHERE status = 'PENDING'
		 ORDER BY created_at ASC
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get pending outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []*outbox.Entry
	for rows.Next() {
		e := &outbox.Entry{}
		var eventType, status string
		if err := rows.Scan(&e.ID, &eventType, &e.Payload, &status, &e.RetryCount, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.EventType = outbox.EventType(eventType)
		e.Status = outbox.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE outbox_events SET status = 'PROCESSED', published_at = $1 WHERE id = $2`, now, id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// IncrementRetry bumps the observability counter only — it never moves the
// row out of PENDING. A publish failure is always retried on the next tick.
func (r *OutboxRepository) IncrementRetry(ctx context.Context, id uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE outbox_events SET retry_count = retry_count + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("increment outbox retry count: %w", err)
	}
	return nil
}
