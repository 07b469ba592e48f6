// Package account implements the ledger: user balances with an
// optimistic-locking debit/credit contract. There is no external payment
// provider in this system — a debit either succeeds against the current
// balance or is refused outright; it is never retried by the ledger itself.
package account

import (
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/google/uuid"
)

// Account holds a user's balance, in cents, guarded by an optimistic
// version counter.
type Account struct {
	ID        uuid.UUID
	UserID    string
	Balance   int64
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a zero-balance account for userID.
func New(userID string) (*Account, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "cannot be empty")
	}
	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   0,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Debit lowers the balance by amount. Callers persist the result with
// AccountRepository.Update, whose WHERE clause enforces that Version
// hasn't moved since this Account was loaded.
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("amount", "must be greater than 0")
	}
	if a.Balance < amount {
		return apperrors.ErrInsufficientFunds
	}
	a.Balance -= amount
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}

// Credit raises the balance by amount (used by deposits).
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("amount", "must be greater than 0")
	}
	a.Balance += amount
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}
