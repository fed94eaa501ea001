package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"greenpulse"
	"greenpulse/internal/service"
)

func TestTelemetryHandlers_Ingest(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	tel := &mockTelemetry{}
	r := newTestRouter(&service.Service{Authorization: auth, Telemetry: tel})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telemetry/sensor",
		bytes.NewBufferString(`{"plantId":"42","moistPct":33.5,"tempC":19,"humPct":60,"ts":1756720000000}`))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if tel.lastPlantID != "42" || tel.lastSnap.MoistPct != 33.5 {
		t.Fatalf("service got plant=%q snap=%+v", tel.lastPlantID, tel.lastSnap)
	}
	if tel.lastSnap.Ts.UnixMilli() != 1756720000000 {
		t.Fatalf("timestamp not taken from body: %v", tel.lastSnap.Ts)
	}

	// plantId is required
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/telemetry/sensor",
		bytes.NewBufferString(`{"moistPct":33.5}`))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without plantId, got %d", w.Code)
	}
}

func TestTelemetryHandlers_CurrentAndLast(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	now := time.Now()
	tel := &mockTelemetry{
		current: &greenpulse.TelemetryRecord{SoilMoisture: 33.5, Ts: now},
	}
	r := newTestRouter(&service.Service{Authorization: auth, Telemetry: tel})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/telemetry/current", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("current status=%d, body=%s", w.Code, w.Body.String())
	}
	var got greenpulse.TelemetryRecord
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.SoilMoisture != 33.5 {
		t.Fatalf("unexpected record %+v", got)
	}

	// no global record yet
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/telemetry/last", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without telemetry, got %d", w.Code)
	}
}
