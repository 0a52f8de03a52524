package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRebookMessage(t *testing.T) {
	cases := map[string]string{
		"Bob's Plumbing LLC": "Hey Bob's, sorry we missed you! You can rebook here: https://x/1",
		"  Ana  ":            "Hey Ana, sorry we missed you! You can rebook here: https://x/1",
		"":                   "Hey there, sorry we missed you! You can rebook here: https://x/1",
	}
	for name, want := range cases {
		if got := RebookMessage(name, "https://x/1"); got != want {
			t.Errorf("RebookMessage(%q) = %q", name, got)
		}
	}
}

func TestWebhookSender(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "tok")
	if err := s.Send(context.Background(), "+15551234567", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["to"] != "+15551234567" || got["body"] != "hello" {
		t.Errorf("payload = %v", got)
	}
	if auth != "Bearer tok" {
		t.Errorf("authorization = %q", auth)
	}
}

func TestWebhookSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewWebhookSender(srv.URL, "").Send(context.Background(), "1", "x"); err == nil {
		t.Error("expected error on 502")
	}
}
