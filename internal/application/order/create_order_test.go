package order_test

import (
	"context"
	"testing"

	appOrder "github.com/cassiomorais/paymentpipeline/internal/application/order"
	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	domainorder "github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/cassiomorais/paymentpipeline/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderUseCase_Execute(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	outbox := testutil.NewMockOutboxRepository()
	tx := testutil.NewMockTransactionManager()

	uc := appOrder.NewCreateOrderUseCase(orders, outbox, tx)

	o, err := uc.Execute(context.Background(), appOrder.CreateOrderRequest{
		UserID:      "user-1",
		Amount:      1500,
		Description: "widget",
	})
	require.NoError(t, err)
	require.Equal(t, domainorder.StatusNew, o.Status)

	stored, err := orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, o.UserID, stored.UserID)

	entries := outbox.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "PAYMENT_REQUEST", string(entries[0].EventType))
}

func TestCreateOrderUseCase_Execute_InvalidAmount(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	outbox := testutil.NewMockOutboxRepository()
	tx := testutil.NewMockTransactionManager()

	uc := appOrder.NewCreateOrderUseCase(orders, outbox, tx)

	_, err := uc.Execute(context.Background(), appOrder.CreateOrderRequest{
		UserID: "user-1",
		Amount: 0,
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	require.Empty(t, outbox.Entries())
}

func TestCreateOrderUseCase_Execute_RepositoryErrorRollsBackOutbox(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	outbox := testutil.NewMockOutboxRepository()
	tx := testutil.NewMockTransactionManager()
	tx.WithTransactionFunc = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return apperrors.ErrOrderNotFound
	}

	uc := appOrder.NewCreateOrderUseCase(orders, outbox, tx)

	_, err := uc.Execute(context.Background(), appOrder.CreateOrderRequest{
		UserID: "user-1",
		Amount: 1500,
	})
	require.Error(t, err)
	require.Empty(t, outbox.Entries())
}
