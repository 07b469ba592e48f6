package testutil

import (
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/google/uuid"
)

// NewTestAccount creates a test account with sensible defaults.
func NewTestAccount(userID string, balanceCents int64) *account.Account {
	now := time.Now()
	return &account.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   balanceCents,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestOrder creates a pending (NEW) test order.
func NewTestOrder(userID string, amountCents int64) *order.Order {
	now := time.Now()
	return &order.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amountCents,
		Description: "test order",
		Status:      order.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
