// Package ledger implements the account operations named in spec.md §4.4:
// create_account, deposit, debit (the optimistic-locking CAS), get_balance,
// and get_transactions.
package ledger

import (
	"context"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
)

type CreateAccountUseCase struct {
	accounts account.Repository
}

func NewCreateAccountUseCase(accounts account.Repository) *CreateAccountUseCase {
	return &CreateAccountUseCase{accounts: accounts}
}

func (uc *CreateAccountUseCase) Execute(ctx context.Context, userID string) (*account.Account, error) {
	existing, err := uc.accounts.GetByUserID(ctx, userID)
	if err != nil && err != apperrors.ErrAccountNotFound {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAccountExists
	}

	a, err := account.New(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}
