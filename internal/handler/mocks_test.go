package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Service mocks
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, sub *model.ContactSubmission) error
}

func (m *mockContactService) Submit(ctx context.Context, sub *model.ContactSubmission) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	sub.ID = "11111111-2222-3333-4444-555555555555"
	return nil
}

type mockNewsletterService struct {
	subscribeFunc   func(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	confirmFunc     func(ctx context.Context, token string) (*service.ConfirmResult, error)
	unsubscribeFunc func(ctx context.Context, email string) error
}

func (m *mockNewsletterService) Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, email)
	}
	return &model.NewsletterSubscriber{Email: email, Status: model.SubscriberPending}, nil
}

func (m *mockNewsletterService) Confirm(ctx context.Context, token string) (*service.ConfirmResult, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, token)
	}
	return &service.ConfirmResult{Email: "a@b.com"}, nil
}

func (m *mockNewsletterService) Unsubscribe(ctx context.Context, email string) error {
	if m.unsubscribeFunc != nil {
		return m.unsubscribeFunc(ctx, email)
	}
	return nil
}

type mockContentService struct {
	getPageFunc      func(ctx context.Context, slug string) (*model.PageContent, error)
	listServicesFunc func(ctx context.Context) ([]*model.ServiceOffering, error)
	listTeamFunc     func(ctx context.Context) ([]*model.TeamMember, error)
}

func (m *mockContentService) GetPage(ctx context.Context, slug string) (*model.PageContent, error) {
	if m.getPageFunc != nil {
		return m.getPageFunc(ctx, slug)
	}
	return &model.PageContent{Slug: slug, Title: "T", Content: "C"}, nil
}

func (m *mockContentService) ListServices(ctx context.Context) ([]*model.ServiceOffering, error) {
	if m.listServicesFunc != nil {
		return m.listServicesFunc(ctx)
	}
	return []*model.ServiceOffering{}, nil
}

func (m *mockContentService) ListTeam(ctx context.Context) ([]*model.TeamMember, error) {
	if m.listTeamFunc != nil {
		return m.listTeamFunc(ctx)
	}
	return []*model.TeamMember{}, nil
}

type mockClientLogService struct {
	recorded []*model.ClientLogEntry
}

func (m *mockClientLogService) Record(_ context.Context, entry *model.ClientLogEntry) {
	m.recorded = append(m.recorded, entry)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// errorBody decodes an API error response.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

// assertError checks status and code of an API error response.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d (body %s)", status, rec.Code, rec.Body.String())
		return
	}
	body := errorBody(t, rec)
	if body["code"] != code {
		t.Errorf("expected code %q, got %v", code, body["code"])
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Errorf("expected non-empty error message, got %v", body)
	}
}
