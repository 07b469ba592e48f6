package notification

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newSession's conn field is untouched by enqueue, Subscribe, and
// Unsubscribe, so a nil *websocket.Conn is sufficient here — these tests
// never call Serve, which is the only method that dereferences it.
func testSession() *Session {
	return newSession(nil, nil, zerolog.Nop())
}

func TestHub_SubscribeAndNotify(t *testing.T) {
	h := NewHub()
	s := testSession()
	h.Subscribe("order-1", s)

	delivered := h.Notify("order-1", []byte(`{"order_id":"order-1"}`))
	require.Equal(t, 1, delivered)

	select {
	case payload := <-s.outbound:
		require.Equal(t, `{"order_id":"order-1"}`, string(payload))
	default:
		t.Fatal("expected payload to be enqueued")
	}
}

func TestHub_Notify_NoSubscriberIsDropped(t *testing.T) {
	h := NewHub()
	delivered := h.Notify("order-missing", []byte("{}"))
	require.Equal(t, 0, delivered)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	s := testSession()
	h.Subscribe("order-1", s)
	h.Unsubscribe("order-1", s.ID())

	delivered := h.Notify("order-1", []byte("{}"))
	require.Equal(t, 0, delivered)
	require.Empty(t, h.subs)
}

func TestHub_MultipleSubscribersSameOrder(t *testing.T) {
	h := NewHub()
	s1, s2 := testSession(), testSession()
	h.Subscribe("order-1", s1)
	h.Subscribe("order-1", s2)

	delivered := h.Notify("order-1", []byte("{}"))
	require.Equal(t, 2, delivered)
}

// A session that has ended (its done channel is closed) is swept from the
// subscriber set during Notify, mirroring the weak-reference sweep the hub
// promises instead of buffering indefinitely.
func TestHub_Notify_SweepsDeadSession(t *testing.T) {
	h := NewHub()
	s := testSession()
	close(s.done)
	h.Subscribe("order-1", s)

	delivered := h.Notify("order-1", []byte("{}"))
	require.Equal(t, 0, delivered)
	require.Empty(t, h.subs)
}
