package account

import (
	"testing"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), a.Balance)
	require.Equal(t, 0, a.Version)

	_, err = New("")
	require.Error(t, err)
}

func TestDebit(t *testing.T) {
	a, _ := New("user-1")
	require.NoError(t, a.Credit(1000))

	require.NoError(t, a.Debit(400))
	require.Equal(t, int64(600), a.Balance)
	require.Equal(t, 2, a.Version)

	err := a.Debit(1000)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	err = a.Debit(0)
	require.Error(t, err)
}

func TestCredit(t *testing.T) {
	a, _ := New("user-1")
	require.NoError(t, a.Credit(500))
	require.Equal(t, int64(500), a.Balance)

	err := a.Credit(-1)
	require.Error(t, err)
}
