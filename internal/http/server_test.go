package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chitieu/internal/bot"
	"chitieu/internal/ledger/memory"
)

type fakeMessenger struct {
	replies []string
}

func (m *fakeMessenger) SendReply(_ context.Context, text string) error {
	m.replies = append(m.replies, text)
	return nil
}

func newTestServer(t *testing.T) (*Server, *memory.Store, *fakeMessenger) {
	t.Helper()
	store := memory.New()
	msgr := &fakeMessenger{}
	s := NewServer(":0", bot.NewProcessor(store, msgr))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, store, msgr
}

func postUpdate(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEntryUpdate(t *testing.T) {
	s, store, msgr := newTestServer(t)

	rec := postUpdate(t, s.Handler,
		`{"update_id":7,"message":{"message_id":1,"text":"Coffee 50k","chat":{"id":42}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.Len() != 1 {
		t.Errorf("store rows = %d, want 1", store.Len())
	}
	if len(msgr.replies) != 1 || msgr.replies[0] != "✅ Done! Coffee 50k" {
		t.Errorf("replies = %v", msgr.replies)
	}
}

func TestWebhookIgnoresNonTextUpdates(t *testing.T) {
	s, store, msgr := newTestServer(t)

	rec := postUpdate(t, s.Handler, `{"update_id":8}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, textless updates must still ack", rec.Code)
	}
	if store.Len() != 0 || len(msgr.replies) != 0 {
		t.Errorf("textless update had side effects: rows=%d replies=%v", store.Len(), msgr.replies)
	}
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := postUpdate(t, s.Handler, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q", allow)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestSuspiciousPathRejected(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/.env", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if s.detector.GetMetrics().SuspiciousRequests != 1 {
		t.Error("suspicious request was not counted")
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	// Drive one real update so the counters move.
	postUpdate(t, s.Handler,
		`{"update_id":1,"message":{"message_id":1,"text":"Coffee 50k","chat":{"id":42}}}`)

	req := httptest.NewRequest(http.MethodGet, "/statusz", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["requests_total"].(float64) < 1 {
		t.Errorf("requests_total = %v", status["requests_total"])
	}
	for _, key := range []string{"rate_limit_clients", "suspicious_requests", "cached_reports"} {
		if _, ok := status[key]; !ok {
			t.Errorf("status missing %q", key)
		}
	}
}
