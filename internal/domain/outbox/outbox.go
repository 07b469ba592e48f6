// Package outbox implements the transactional outbox entry written inside
// the same transaction as the business row it describes, and later
// dispatched to the broker by internal/outboxdispatch.
package outbox

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the two kinds of message this pipeline ever publishes.
type EventType string

const (
	EventPaymentRequest EventType = "PAYMENT_REQUEST"
	EventPaymentResult  EventType = "PAYMENT_RESULT"
)

// Status is intentionally two-valued: an entry is either still waiting to
// be published, or it has been. There is no FAILED state and no automatic
// skip — a publish failure simply leaves the row PENDING for the next
// dispatcher tick to retry, forever. RetryCount is bookkeeping for metrics
// and logs only; it never gates a transition.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
)

type Entry struct {
	ID          uuid.UUID
	EventType   EventType
	Payload     []byte
	Status      Status
	RetryCount  int
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// NewEntry builds a pending outbox row carrying the already-marshalled
// message payload.
func NewEntry(eventType EventType, payload []byte) *Entry {
	return &Entry{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}
