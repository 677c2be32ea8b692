package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePauser struct {
	paused bool
}

func (p *fakePauser) TogglePause() bool {
	p.paused = !p.paused
	return p.paused
}

func (p *fakePauser) Paused() bool { return p.paused }

func TestPauseToggle(t *testing.T) {
	handler := NewControlHandler(&fakePauser{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/pause", nil)
	rec := httptest.NewRecorder()
	handler.Pause(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp pauseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Paused {
		t.Error("first toggle should report paused")
	}
}

func TestPauseGetReportsState(t *testing.T) {
	handler := NewControlHandler(&fakePauser{paused: true}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/pause", nil)
	rec := httptest.NewRecorder()
	handler.Pause(rec, req)

	var resp pauseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Paused {
		t.Error("GET should report the current pause state")
	}
}
