package ledger_test

import (
	"context"
	"testing"

	appLedger "github.com/cassiomorais/paymentpipeline/internal/application/ledger"
	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/cassiomorais/paymentpipeline/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestDepositUseCase_Execute(t *testing.T) {
	accounts := testutil.NewMockAccountRepository()
	a := testutil.NewTestAccount("user-1", 1000)
	accounts.AddAccount(a)

	uc := appLedger.NewDepositUseCase(accounts)
	updated, err := uc.Execute(context.Background(), "user-1", 500)
	require.NoError(t, err)
	require.Equal(t, int64(1500), updated.Balance)

	txns, err := accounts.GetTransactions(context.Background(), a.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, account.TransactionCredit, txns[0].Type)
	require.Equal(t, int64(500), txns[0].Amount)
}

func TestDepositUseCase_Execute_UnknownAccount(t *testing.T) {
	accounts := testutil.NewMockAccountRepository()
	uc := appLedger.NewDepositUseCase(accounts)

	_, err := uc.Execute(context.Background(), "ghost", 500)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestDepositUseCase_Execute_InvalidAmount(t *testing.T) {
	accounts := testutil.NewMockAccountRepository()
	a := testutil.NewTestAccount("user-1", 1000)
	accounts.AddAccount(a)

	uc := appLedger.NewDepositUseCase(accounts)
	_, err := uc.Execute(context.Background(), "user-1", 0)
	require.Error(t, err)
}
