package notification

import (
	"net/http"

	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Server upgrades incoming HTTP connections to WebSocket sessions and
// registers them with the shared Hub.
type Server struct {
	hub      *Hub
	logger   zerolog.Logger
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, logger zerolog.Logger, metrics *observability.Metrics) *Server {
	return &Server{
		hub:     hub,
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	session := newSession(conn, srv.hub, srv.logger)
	srv.metrics.WSActiveSessions.Inc()
	defer srv.metrics.WSActiveSessions.Dec()
	session.Serve()
}
