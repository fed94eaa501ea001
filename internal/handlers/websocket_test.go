package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"greenpulse"
	"greenpulse/internal/eventbus"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newWSServer(t *testing.T, s *service.Service, bus *eventbus.Bus) (*httptest.Server, *url.URL) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, bus)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	return srv, u
}

type wsTestEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestWebSocket_TelemetryStream(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	tel := &mockTelemetry{current: &greenpulse.TelemetryRecord{SoilMoisture: 33.5, Ts: time.Now()}}
	s := &service.Service{Authorization: auth, Telemetry: tel}
	bus := eventbus.New()

	_, u := newWSServer(t, s, bus)
	q := u.Query()
	q.Set("token", "tok")
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// Initial push.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "telemetry" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var rec greenpulse.TelemetryRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if rec.SoilMoisture != 33.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// A sensor write triggers another push.
	tel.current = &greenpulse.TelemetryRecord{SoilMoisture: 28, Ts: time.Now()}
	bus.Publish(eventbus.Event{Key: "sensor_ana@example.com_42"})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = wsTestEnvelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	_ = json.Unmarshal(env.Data, &rec)
	if rec.SoilMoisture != 28 {
		t.Fatalf("expected refreshed record, got %+v", rec)
	}
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	auth := &mockAuth{parseErr: errors.New("expired")}
	s := &service.Service{Authorization: auth}

	_, u := newWSServer(t, s, eventbus.New())
	q := u.Query()
	q.Set("token", "expired")
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	if _, _, err := dialer.Dial(u.String(), nil); err == nil {
		t.Fatal("expected handshake to fail for a bad token")
	}
}

func TestWebSocket_InitialFetchError_Closes(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	tel := &mockTelemetry{err: errors.New("boom")}
	s := &service.Service{Authorization: auth, Telemetry: tel}

	_, u := newWSServer(t, s, eventbus.New())
	q := u.Query()
	q.Set("token", "tok")
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
