package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thefavrs/backend/internal/mail"
	"github.com/thefavrs/backend/internal/metrics"
	"github.com/thefavrs/backend/internal/model"
	"go.uber.org/zap"
)

// Notifier renders and sends the site's notification emails.
// mail.Notifier is the production implementation.
type Notifier interface {
	ContactReceived(ctx context.Context, sub *model.ContactSubmission) error
	NewsletterSignup(ctx context.Context, sub *model.NewsletterSubscriber) error
	Welcome(ctx context.Context, sub *model.NewsletterSubscriber) error
}

// Notifications sends mail after a write has been committed. Delivery runs
// in the background so the response is never held up by the mail provider;
// outcomes are logged and counted, and failures never reach the caller.
// Wait blocks until every pending delivery has finished.
type Notifications struct {
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewNotifications creates Notifications. Each send gets its own timeout,
// detached from the request's cancellation.
func NewNotifications(notifier Notifier, logger *zap.Logger, timeout time.Duration) *Notifications {
	return &Notifications{notifier: notifier, logger: logger, timeout: timeout}
}

const (
	notifyContact    = "contact_admin"
	notifyNewsletter = "newsletter_admin"
	notifyWelcome    = "newsletter_welcome"
)

func (n *Notifications) contactReceived(ctx context.Context, sub *model.ContactSubmission) {
	n.background(ctx, func(ctx context.Context) {
		n.deliver(ctx, notifyContact, func(ctx context.Context) error {
			return n.notifier.ContactReceived(ctx, sub)
		})
	})
}

// newsletterSignup sends the admin notification, then the welcome email.
func (n *Notifications) newsletterSignup(ctx context.Context, sub *model.NewsletterSubscriber) {
	n.background(ctx, func(ctx context.Context) {
		n.deliver(ctx, notifyNewsletter, func(ctx context.Context) error {
			return n.notifier.NewsletterSignup(ctx, sub)
		})
		n.deliver(ctx, notifyWelcome, func(ctx context.Context) error {
			return n.notifier.Welcome(ctx, sub)
		})
	})
}

// background runs fn on its own goroutine with a context detached from the
// request's cancellation.
func (n *Notifications) background(ctx context.Context, fn func(context.Context)) {
	if n == nil || n.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until all background deliveries have finished.
func (n *Notifications) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func (n *Notifications) deliver(ctx context.Context, kind string, send func(context.Context) error) {
	if n == nil || n.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	err := send(ctx)
	switch {
	case errors.Is(err, mail.ErrNoRecipients):
		metrics.RecordNotificationSkipped(kind)
		n.logger.Debug("notification skipped: no recipients", zap.String("kind", kind))
	case err != nil:
		metrics.RecordNotification(kind, err)
		n.logger.Warn("notification failed", zap.String("kind", kind), zap.Error(err))
	default:
		metrics.RecordNotification(kind, nil)
		n.logger.Info("notification sent", zap.String("kind", kind))
	}
}
