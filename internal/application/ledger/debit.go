package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/google/uuid"
)

// DebitUseCase is invoked only by the Inbox Consumer, inside its own
// transaction. It never retries a failed debit itself — insufficient
// funds or a lock conflict is reported back as-is and becomes the
// PaymentResult's success=false path.
type DebitUseCase struct {
	accounts account.Repository
}

func NewDebitUseCase(accounts account.Repository) *DebitUseCase {
	return &DebitUseCase{accounts: accounts}
}

// Execute returns (false, nil) for an expected, terminal business outcome
// — insufficient funds, or losing the optimistic-lock race on a concurrent
// update — and (false, err) otherwise: an unknown account, an invalid
// amount, or an infrastructure failure. Both
// terminal outcomes must produce a PaymentResult{success:false} exactly
// once rather than loop via broker redelivery, so neither is reported as
// an error the caller should retry.
func (uc *DebitUseCase) Execute(ctx context.Context, userID string, amount int64, orderID string) (bool, error) {
	a, err := uc.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if a == nil {
		return false, apperrors.ErrAccountNotFound
	}

	if err := a.Debit(amount); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return false, nil
		}
		return false, err
	}

	if err := uc.accounts.Update(ctx, a); err != nil {
		if errors.Is(err, apperrors.ErrOptimisticLockFailed) {
			return false, nil
		}
		return false, fmt.Errorf("update account: %w", err)
	}

	oid := orderID
	if err := uc.accounts.AddTransaction(ctx, &account.Transaction{
		ID:           uuid.New(),
		AccountID:    a.ID,
		OrderID:      &oid,
		Type:         account.TransactionDebit,
		Amount:       amount,
		BalanceAfter: a.Balance,
		CreatedAt:    a.UpdatedAt,
	}); err != nil {
		return false, fmt.Errorf("record transaction: %w", err)
	}
	return true, nil
}
