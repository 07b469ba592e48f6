// Package notification implements the Notification Hub and WebSocket
// Session: a subscription registry keyed by order id, fanning out terminal
// PaymentResults to whichever sessions are currently subscribed. Sessions
// are not owned by the hub — a session unsubscribes itself when its
// connection ends, and Notify also sweeps any session that can no longer
// accept a message, mirroring the weak-reference behavior of the
// original's notification_manager.
package notification

import (
	"sync"
)

// Hub holds, per order id, the set of sessions subscribed to it. One
// sync.RWMutex guards the whole structure; the critical section never
// includes a socket write — Notify only hands the message to each
// session's own outbound channel before releasing the lock.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int64]*Session
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int64]*Session)}
}

// Subscribe binds session to orderID. If the session was already bound to
// a different order id, callers are expected to Unsubscribe it first (the
// WebSocket protocol only allows one active subscription per session).
func (h *Hub) Subscribe(orderID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[orderID]
	if !ok {
		set = make(map[int64]*Session)
		h.subs[orderID] = set
	}
	set[s.ID()] = s
}

// Unsubscribe removes session from orderID's set, deleting the set
// entirely once it's empty so the map doesn't grow without bound.
func (h *Hub) Unsubscribe(orderID string, sessionID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[orderID]
	if !ok {
		return
	}
	delete(set, sessionID)
	if len(set) == 0 {
		delete(h.subs, orderID)
	}
}

// Notify delivers payload to every session subscribed to orderID. A
// PaymentResult arriving with no subscriber (nobody ever subscribed, or
// they've disconnected) is simply dropped — there is no buffering.
// Sessions that reject the send (already ended, or outbound buffer full)
// are swept from the set in the same pass.
func (h *Hub) Notify(orderID string, payload []byte) (delivered int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[orderID]
	if !ok {
		return 0
	}
	for id, s := range set {
		if s.enqueue(payload) {
			delivered++
		} else {
			delete(set, id)
		}
	}
	if len(set) == 0 {
		delete(h.subs, orderID)
	}
	return delivered
}
