package notification

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var nextSessionID int64

// outboundBuffer bounds how far a slow reader can lag before its session
// is dropped rather than letting Notify block on it.
const outboundBuffer = 32

// Session wraps one client connection. Outbound writes are serialized
// through a single writer goroutine draining outbound in FIFO order —
// Go's equivalent of the original's per-connection strand with at most
// one async_write in flight.
type Session struct {
	id         int64
	conn       *websocket.Conn
	hub        *Hub
	logger     zerolog.Logger
	outbound   chan []byte
	done       chan struct{}
	subscribed string // bound order id, "" if none
}

func newSession(conn *websocket.Conn, hub *Hub, logger zerolog.Logger) *Session {
	return &Session{
		id:       atomic.AddInt64(&nextSessionID, 1),
		conn:     conn,
		hub:      hub,
		logger:   logger,
		outbound: make(chan []byte, outboundBuffer),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() int64 { return s.id }

// enqueue hands payload to the writer goroutine without blocking; it
// returns false if the session is gone or backed up, signaling the hub to
// drop it from the subscriber set.
func (s *Session) enqueue(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outbound <- payload:
		return true
	default:
		return false
	}
}

type subscribeFrame struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
}

// Serve runs both the read loop and the write loop for this session until
// the connection closes, then unsubscribes it from whatever order it was
// bound to. Call in its own goroutine; it blocks until the session ends.
func (s *Session) Serve() {
	writerDone := make(chan struct{})
	go s.writeLoop(writerDone)

	defer func() {
		close(s.done)
		<-writerDone
		if s.subscribed != "" {
			s.hub.Unsubscribe(s.subscribed, s.id)
		}
		s.conn.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame subscribeFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Type != "subscribe" || frame.OrderID == "" {
			continue
		}
		if s.subscribed != "" {
			s.hub.Unsubscribe(s.subscribed, s.id)
		}
		s.subscribed = frame.OrderID
		s.hub.Subscribe(frame.OrderID, s)

		ack, _ := json.Marshal(map[string]string{"type": "subscribed", "order_id": frame.OrderID})
		s.enqueue(ack)
	}
}

func (s *Session) writeLoop(done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-s.done:
			return
		case payload := <-s.outbound:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
