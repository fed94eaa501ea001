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

func TestHistoryHandlers_AppendAndList(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	now := time.Now()
	hist := &mockHistory{
		entry: &greenpulse.HistoryEntry{ID: "h1", Ts: now, SoilMoisture: 21.5},
		entries: []greenpulse.HistoryEntry{
			{ID: "h2", Ts: now},
			{ID: "h1", Ts: now.Add(-time.Minute)},
		},
	}
	r := newTestRouter(&service.Service{Authorization: auth, History: hist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/history",
		bytes.NewBufferString(`{"soil_temperature":19.5,"soil_moisture":21.5,"air_humidity":55,"ai_need_water":true,"ai_probability":0.87}`))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("append status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastInput.SoilMoisture != 21.5 || !hist.lastPred.NeedWater || hist.lastPred.Probability != 0.87 {
		t.Fatalf("service got input=%+v pred=%+v", hist.lastInput, hist.lastPred)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=5", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastLimit != 5 {
		t.Fatalf("Recent got limit %d", hist.lastLimit)
	}
	var got []greenpulse.HistoryEntry
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "h2" {
		t.Fatalf("unexpected list %+v", got)
	}
}

func TestHistoryHandlers_AppendWithoutPlant(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	hist := &mockHistory{} // nil entry, nil error: silent no-op
	r := newTestRouter(&service.Service{Authorization: auth, History: hist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/history",
		bytes.NewBufferString(`{"soil_moisture":10}`))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 when nothing was recorded, got %d", w.Code)
	}
}

func TestHistoryHandlers_Summary(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	hist := &mockHistory{summary: &greenpulse.Summary{Plant: "Ficus", Records: 3, ProbabilityPct: 68}}
	r := newTestRouter(&service.Service{Authorization: auth, History: hist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/summary", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status=%d, body=%s", w.Code, w.Body.String())
	}
	var got greenpulse.Summary
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ProbabilityPct != 68 {
		t.Fatalf("unexpected summary %+v", got)
	}

	// empty history
	hist.summary = nil
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/history/summary", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for empty history, got %d", w.Code)
	}
}

func TestHistoryHandlers_MarkWatered(t *testing.T) {
	auth := &mockAuth{parseEmail: "ana@example.com"}
	hist := &mockHistory{}
	r := newTestRouter(&service.Service{Authorization: auth, History: hist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/history/h1/watered", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastEntryID != "h1" {
		t.Fatalf("MarkWatered got id %q", hist.lastEntryID)
	}

	hist.err = greenpulse.ErrNotFound
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/history/nope/watered", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown entry, got %d", w.Code)
	}
}
