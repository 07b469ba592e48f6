package inbox

import "context"

type Repository interface {
	// GetByOrderID returns (nil, nil) if no row exists yet for orderID.
	GetByOrderID(ctx context.Context, orderID string) (*Event, error)
	Insert(ctx context.Context, e *Event) error
	MarkProcessed(ctx context.Context, orderID string) error
	MarkFailed(ctx context.Context, orderID string) error
}
