package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mockNotifier: records calls, optional per-kind errors
// ---------------------------------------------------------------------------

type mockNotifier struct {
	mu         sync.Mutex
	calls      []string
	contactErr error
	signupErr  error
	welcomeErr error
	// ctxErr captures ctx.Err() at send time.
	ctxErr []error
}

func (m *mockNotifier) record(kind string, ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, kind)
	m.ctxErr = append(m.ctxErr, ctx.Err())
}

func (m *mockNotifier) ContactReceived(ctx context.Context, _ *model.ContactSubmission) error {
	m.record("contact", ctx)
	return m.contactErr
}

func (m *mockNotifier) NewsletterSignup(ctx context.Context, _ *model.NewsletterSubscriber) error {
	m.record("signup", ctx)
	return m.signupErr
}

func (m *mockNotifier) Welcome(ctx context.Context, _ *model.NewsletterSubscriber) error {
	m.record("welcome", ctx)
	return m.welcomeErr
}

// ---------------------------------------------------------------------------
// fakeSubscriberRepo: in-memory SubscriberRepository with the same
// conditional-write semantics as the Postgres implementation
// ---------------------------------------------------------------------------

type fakeSubscriberRepo struct {
	byEmail map[string]*model.NewsletterSubscriber
	nextID  int

	findErr   error
	upsertErr error
	markErr   error

	// beforeWrite runs before each conditional write, to simulate a
	// concurrent request changing the row.
	beforeWrite func()

	unsubscribeCalls int
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{byEmail: make(map[string]*model.NewsletterSubscriber)}
}

func (r *fakeSubscriberRepo) put(s *model.NewsletterSubscriber) {
	if s.ID == "" {
		r.nextID++
		s.ID = fmt.Sprintf("sub-%d", r.nextID)
	}
	r.byEmail[s.Email] = s
}

func (r *fakeSubscriberRepo) FindByEmail(_ context.Context, email string) (*model.NewsletterSubscriber, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubscriberRepo) FindByToken(_ context.Context, token string) (*model.NewsletterSubscriber, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, s := range r.byEmail {
		if s.ConfirmationToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSubscriberRepo) UpsertPending(_ context.Context, sub *model.NewsletterSubscriber) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if s, ok := r.byEmail[sub.Email]; ok {
		if s.Status != model.SubscriberUnsubscribed {
			return repository.ErrConflict
		}
		sub.ID = s.ID
	}
	cp := *sub
	cp.Status = model.SubscriberPending
	cp.ConfirmedAt, cp.UnsubscribedAt = nil, nil
	r.put(&cp)
	sub.ID = cp.ID
	return nil
}

func (r *fakeSubscriberRepo) MarkConfirmed(_ context.Context, id string, at time.Time) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	if r.markErr != nil {
		return r.markErr
	}
	for _, s := range r.byEmail {
		if s.ID == id && s.Status == model.SubscriberPending {
			s.Status = model.SubscriberConfirmed
			s.ConfirmedAt = &at
			return nil
		}
	}
	return repository.ErrConflict
}

func (r *fakeSubscriberRepo) MarkUnsubscribed(_ context.Context, email string, at time.Time) error {
	r.unsubscribeCalls++
	if r.markErr != nil {
		return r.markErr
	}
	if s, ok := r.byEmail[email]; ok && s.Status != model.SubscriberUnsubscribed {
		s.Status = model.SubscriberUnsubscribed
		s.UnsubscribedAt = &at
	}
	return nil
}
