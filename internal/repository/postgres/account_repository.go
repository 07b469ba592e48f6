package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository implements account.Repository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *AccountRepository) scanAccount(s scanner) (*account.Account, error) {
	a := &account.Account{}
	var balanceStr string
	err := s.Scan(&a.ID, &a.UserID, &balanceStr, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	cents, err := numericStringToCents(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	a.Balance = cents
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO accounts (id, user_id, balance, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, centsToNumericString(a.Balance), a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.scanAccount(r.db(ctx).QueryRow(ctx,
		`SELECT id, user_id, balance, version, created_at, updated_at FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*account.Account, error) {
	return r.scanAccount(r.db(ctx).QueryRow(ctx,
		`SELECT id, user_id, balance, version, created_at, updated_at FROM accounts WHERE user_id = $1`, userID))
}

// Update is the ledger's compare-and-swap write: it matches the row on both
// id and the version the caller loaded (a.Version-1, since Debit/Credit
// already incremented it in memory). Zero rows affected means someone else
// committed a change first, reported as ErrOptimisticLockFailed; Update
// itself does not reload or retry.
func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE accounts SET balance = $1, version = $2, updated_at = $3
		 WHERE id = $4 AND version = $5`,
		centsToNumericString(a.Balance), a.Version, a.UpdatedAt, a.ID, a.Version-1,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOptimisticLockFailed
	}
	return nil
}

func (r *AccountRepository) AddTransaction(ctx context.Context, t *account.Transaction) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO account_transactions (id, account_id, order_id, transaction_type, amount, balance_after, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.AccountID, t.OrderID, string(t.Type), centsToNumericString(t.Amount), centsToNumericString(t.BalanceAfter), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account transaction: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*account.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, account_id, order_id, transaction_type, amount, balance_after, created_at
		 FROM account_transactions WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*account.Transaction
	for rows.Next() {
		t := &account.Transaction{}
		var txType, amountStr, balanceStr string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.OrderID, &txType, &amountStr, &balanceStr, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = account.TransactionType(txType)
		if t.Amount, err = numericStringToCents(amountStr); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if t.BalanceAfter, err = numericStringToCents(balanceStr); err != nil {
			return nil, fmt.Errorf("parse balance_after: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
