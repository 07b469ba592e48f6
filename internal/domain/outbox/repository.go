package outbox

import (
	"context"

	"github.com/google/uuid"
)

// Repository is implemented once in internal/repository/postgres and used
// unmodified by both the Orders and Payments binaries — each owns its own
// outbox table but the access pattern (insert-in-tx, poll-with-skip-locked,
// mark-published) is identical.
type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	GetPending(ctx context.Context, limit int) ([]*Entry, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	IncrementRetry(ctx context.Context, id uuid.UUID) error
}
