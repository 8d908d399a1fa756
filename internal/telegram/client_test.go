package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendReply(t *testing.T) {
	var gotPath, gotChatID, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotChatID = r.URL.Query().Get("chat_id")
		gotText = r.URL.Query().Get("text")
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("TOKEN", "12345", srv.URL)
	if err := c.SendReply(context.Background(), "✅ Done! Coffee 50k"); err != nil {
		t.Fatalf("SendReply: %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChatID != "12345" || gotText != "✅ Done! Coffee 50k" {
		t.Errorf("params: chat_id=%q text=%q", gotChatID, gotText)
	}
}

func TestSendReplyAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("TOKEN", "12345", srv.URL)
	err := c.SendReply(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API rejection, got %v", err)
	}
}

func TestWebhookLifecycle(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "setWebhook"):
			if r.URL.Query().Get("url") != "https://example.com/webhook" {
				t.Errorf("setWebhook url = %q", r.URL.Query().Get("url"))
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		case strings.HasSuffix(r.URL.Path, "getWebhookInfo"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"url":"https://example.com/webhook","pending_update_count":3}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL("TOKEN", "12345", srv.URL)
	ctx := context.Background()

	if err := c.SetWebhook(ctx, "https://example.com/webhook"); err != nil {
		t.Fatalf("SetWebhook: %v", err)
	}
	info, err := c.GetWebhookInfo(ctx)
	if err != nil {
		t.Fatalf("GetWebhookInfo: %v", err)
	}
	if info.URL != "https://example.com/webhook" || info.PendingUpdates != 3 {
		t.Errorf("info = %+v", info)
	}
	if err := c.DeleteWebhook(ctx); err != nil {
		t.Fatalf("DeleteWebhook: %v", err)
	}
	if len(calls) != 3 {
		t.Errorf("calls = %v", calls)
	}
}
