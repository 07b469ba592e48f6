package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists accounts and their transaction ledger.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByUserID(ctx context.Context, userID string) (*Account, error)

	// Update performs the compare-and-swap write: it succeeds only if the
	// stored version still matches a.Version-1, i.e. nothing else has
	// written to this account since it was loaded.
	Update(ctx context.Context, a *Account) error

	AddTransaction(ctx context.Context, t *Transaction) error
	GetTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
}

// Transaction is an audit row recorded alongside every balance change.
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	OrderID      *string
	Type         TransactionType
	Amount       int64
	BalanceAfter int64
	CreatedAt    time.Time
}

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)
