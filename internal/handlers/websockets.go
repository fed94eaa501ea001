package handlers

import (
	"context"
	"net/http"
	"time"

	"greenpulse/internal/eventbus"
	"greenpulse/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsConnect streams dashboard telemetry to the client. Browsers cannot set
// headers on WebSocket requests, so the bearer token travels in the query.
func (h *Handler) wsConnect(c *gin.Context) {
	token := c.Query("token")
	email, err := h.services.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := h.sendTelemetry(c.Request.Context(), conn, email); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !wsRelevantEvent(ev, email) {
				continue
			}
			if err := h.sendTelemetry(c.Request.Context(), conn, email); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		}
	}
}

// wsRelevantEvent reports whether a storage change should trigger a push for
// the given account.
func wsRelevantEvent(ev eventbus.Event, email string) bool {
	if repository.IsSensorKey(ev.Key) {
		return true
	}
	return repository.IsTelemetryKeyFor(ev.Key, email)
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendTelemetry fetches and writes the account's current telemetry
// with a write deadline.
func (h *Handler) sendTelemetry(ctx context.Context, conn *websocket.Conn, email string) error {
	rec, err := h.services.Telemetry.Current(ctx, email)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_telemetry_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if rec == nil {
		return conn.WriteJSON(wsEnvelope{Type: "telemetry", Error: "no telemetry yet"})
	}
	return conn.WriteJSON(wsEnvelope{Type: "telemetry", Data: rec})
}
