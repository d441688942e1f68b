package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	RequestLogger(zap.New(core))(inner).ServeHTTP(rec, httptest.NewRequest("POST", "/api/logs", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("expected status 202, got %v", fields["status"])
	}
	if fields["path"] != "/api/logs" || fields["method"] != "POST" {
		t.Errorf("unexpected fields %v", fields)
	}
}
