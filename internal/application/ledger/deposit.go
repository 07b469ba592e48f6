package ledger

import (
	"context"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/google/uuid"
)

type DepositUseCase struct {
	accounts account.Repository
}

func NewDepositUseCase(accounts account.Repository) *DepositUseCase {
	return &DepositUseCase{accounts: accounts}
}

// Execute credits the account directly — deposits are never routed through
// the outbox. Nothing downstream needs to react to a deposit, so there is
// no event to make reliable.
func (uc *DepositUseCase) Execute(ctx context.Context, userID string, amount int64) (*account.Account, error) {
	a, err := uc.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if err := a.Credit(amount); err != nil {
		return nil, err
	}
	if err := uc.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	if err := uc.accounts.AddTransaction(ctx, &account.Transaction{
		ID:           uuid.New(),
		AccountID:    a.ID,
		Type:         account.TransactionCredit,
		Amount:       amount,
		BalanceAfter: a.Balance,
		CreatedAt:    a.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}
	return a, nil
}
