// Package wsstream serves the engine event stream over WebSocket. It shares
// the SSE hub, so both transports see the same events and filters.
package wsstream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/sse"
)

// Server upgrades requests and streams hub events as JSON text frames.
type Server struct {
	hub      *sse.Hub
	upgrader websocket.Upgrader
}

// NewServer returns a stream server over hub. Origins are not checked: the
// service is meant to run next to the player's own tools.
func NewServer(hub *sse.Hub) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler upgrades the connection. ?types= filters like the SSE endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn(LogMsgUpgradeFailed, "error", err)
			return
		}
		defer conn.Close()

		types := sse.ParseTypes(r)
		client := s.hub.Register(types)
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", types)
		defer func() {
			s.hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		// The read pump only services control frames and notices closes.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadLimit(maxMessageSize)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		hello := sse.Event{
			ID:        client.ID,
			Type:      sse.EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   sse.ConnectedPayload{ClientID: client.ID, Filters: types},
		}
		if err := writeJSON(conn, hello); err != nil {
			log.Warn(LogMsgWriteFailed, "error", err)
			return
		}

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-closed:
				return

			case evt, ok := <-client.EventChannel:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
						time.Now().Add(writeWait))
					return
				}
				if err := writeJSON(conn, evt); err != nil {
					log.Warn(LogMsgWriteFailed, "error", err)
					return
				}

			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
