package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestResendSender(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewResendSender("re_test", "TheFavrs <no-reply@thefavrs.com>")
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	s.client.BaseURL = base
	return s
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	s := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer re_test" {
			t.Errorf("missing api key header, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	})

	err := s.Send(context.Background(), Message{
		To:      []string{"a@b.com"},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["from"] != "TheFavrs <no-reply@thefavrs.com>" || got["subject"] != "Hello" {
		t.Errorf("unexpected payload %v", got)
	}
	if got["html"] != "<p>hi</p>" || got["text"] != "hi" {
		t.Errorf("bodies not forwarded: %v", got)
	}
}

func TestResendSender_ProviderError(t *testing.T) {
	s := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	})

	if err := s.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "x"}); err == nil {
		t.Error("expected provider error")
	}
}

func TestResendSender_NoRecipients(t *testing.T) {
	s := NewResendSender("re_test", "x@y.com")
	if err := s.Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Error("expected error without recipients")
	}
}
