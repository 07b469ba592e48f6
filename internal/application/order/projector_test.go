package order_test

import (
	"context"
	"testing"

	appOrder "github.com/cassiomorais/paymentpipeline/internal/application/order"
	domainorder "github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/cassiomorais/paymentpipeline/internal/domain/messages"
	"github.com/cassiomorais/paymentpipeline/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestStatusProjector_Apply_Success(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	o := testutil.NewTestOrder("user-1", 1500)
	orders.AddOrder(o)

	projector := appOrder.NewStatusProjector(orders)
	err := projector.Apply(context.Background(), messages.PaymentResult{
		OrderID: o.ID.String(),
		UserID:  o.UserID,
		Success: true,
	})
	require.NoError(t, err)

	stored, _ := orders.GetByID(context.Background(), o.ID)
	require.Equal(t, domainorder.StatusFinished, stored.Status)
}

func TestStatusProjector_Apply_Failure(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	o := testutil.NewTestOrder("user-1", 1500)
	orders.AddOrder(o)

	projector := appOrder.NewStatusProjector(orders)
	err := projector.Apply(context.Background(), messages.PaymentResult{
		OrderID: o.ID.String(),
		UserID:  o.UserID,
		Success: false,
	})
	require.NoError(t, err)

	stored, _ := orders.GetByID(context.Background(), o.ID)
	require.Equal(t, domainorder.StatusCancelled, stored.Status)
}

// A redelivered result for an order that already settled is a harmless
// no-op, not an error — the projector must not propagate ErrIllegalTransition.
func TestStatusProjector_Apply_RedeliveryIsNoop(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	o := testutil.NewTestOrder("user-1", 1500)
	orders.AddOrder(o)

	projector := appOrder.NewStatusProjector(orders)
	result := messages.PaymentResult{OrderID: o.ID.String(), UserID: o.UserID, Success: true}

	require.NoError(t, projector.Apply(context.Background(), result))
	require.NoError(t, projector.Apply(context.Background(), result))

	stored, _ := orders.GetByID(context.Background(), o.ID)
	require.Equal(t, domainorder.StatusFinished, stored.Status)
}

func TestStatusProjector_Apply_MalformedOrderID(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	projector := appOrder.NewStatusProjector(orders)

	err := projector.Apply(context.Background(), messages.PaymentResult{OrderID: "not-a-uuid"})
	require.Error(t, err)
}

func TestStatusProjector_Apply_UnknownOrder(t *testing.T) {
	orders := testutil.NewMockOrderRepository()
	projector := appOrder.NewStatusProjector(orders)

	err := projector.Apply(context.Background(), messages.PaymentResult{
		OrderID: testutil.NewTestOrder("user-1", 1000).ID.String(),
		Success: true,
	})
	require.Error(t, err)
}
