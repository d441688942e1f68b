package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thefavrs/backend/internal/mail"
	"github.com/thefavrs/backend/internal/metrics"
	"github.com/thefavrs/backend/internal/model"
	"go.uber.org/zap"
)

func counter(kind, result string) float64 {
	return testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues(kind, result))
}

func TestNotifications_Deliver_RecordsOutcome(t *testing.T) {
	n := NewNotifications(&mockNotifier{}, zap.NewNop(), time.Second)
	cases := []struct {
		err    error
		result string
	}{
		{nil, "sent"},
		{errors.New("down"), "failed"},
		{mail.ErrNoRecipients, "skipped"},
	}
	for _, c := range cases {
		before := counter("test_kind", c.result)
		n.deliver(context.Background(), "test_kind", func(context.Context) error { return c.err })
		if got := counter("test_kind", c.result); got != before+1 {
			t.Errorf("%s: expected counter %v, got %v", c.result, before+1, got)
		}
	}
}

func TestNotifications_Deliver_AppliesTimeout(t *testing.T) {
	n := NewNotifications(&mockNotifier{}, zap.NewNop(), 10*time.Millisecond)

	var deadline time.Time
	var hasDeadline bool
	n.deliver(context.Background(), "test_kind", func(ctx context.Context) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	})
	if !hasDeadline || time.Until(deadline) > 10*time.Millisecond {
		t.Errorf("expected a bounded deadline, got %v (set=%v)", deadline, hasDeadline)
	}
}

func TestNotifications_NilIsNoop(t *testing.T) {
	var n *Notifications
	called := false
	n.deliver(context.Background(), "test_kind", func(context.Context) error {
		called = true
		return nil
	})
	if called {
		t.Error("nil Notifications must not send")
	}
}

// blockingNotifier holds every send until release is closed or ctx ends.
type blockingNotifier struct {
	release chan struct{}
	mockNotifier
}

func (b *blockingNotifier) ContactReceived(ctx context.Context, sub *model.ContactSubmission) error {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return b.mockNotifier.ContactReceived(ctx, sub)
}

func TestNotifications_DoesNotBlockCaller(t *testing.T) {
	notifier := &blockingNotifier{release: make(chan struct{})}
	notify := NewNotifications(notifier, zap.NewNop(), time.Minute)
	svc := NewContactService(&mockContactRepository{}, notify)

	done := make(chan error, 1)
	go func() {
		done <- svc.Submit(context.Background(), &model.ContactSubmission{Email: "a@b.com"})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Submit waited for mail delivery")
	}

	close(notifier.release)
	notify.Wait()
	if len(notifier.calls) != 1 || notifier.calls[0] != "contact" {
		t.Errorf("expected the contact notification after Wait, got %v", notifier.calls)
	}
}

func TestNotifications_WaitOnNil(t *testing.T) {
	var n *Notifications
	n.contactReceived(context.Background(), &model.ContactSubmission{})
	n.Wait()
}
