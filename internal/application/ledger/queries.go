package ledger

import (
	"context"

	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
)

type Queries struct {
	accounts account.Repository
}

func NewQueries(accounts account.Repository) *Queries {
	return &Queries{accounts: accounts}
}

func (q *Queries) GetBalance(ctx context.Context, userID string) (*account.Account, error) {
	return q.accounts.GetByUserID(ctx, userID)
}

func (q *Queries) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*account.Transaction, error) {
	a, err := q.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return q.accounts.GetTransactions(ctx, a.ID, limit, offset)
}
