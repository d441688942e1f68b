package service

import (
	"context"

	"github.com/thefavrs/backend/internal/model"
)

// NewsletterService manages the subscriber lifecycle:
// pending -> confirmed -> unsubscribed, with re-subscribe resetting to pending.
type NewsletterService interface {
	// Subscribe creates or resets the subscriber to pending with a fresh
	// confirmation token. Returns ErrAlreadySubscribed or
	// ErrPendingConfirmation when the email is already active.
	Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error)

	// Confirm confirms the subscriber holding token. Confirming twice is not
	// an error. Returns ErrInvalidToken or ErrEmailUnsubscribed.
	Confirm(ctx context.Context, token string) (*ConfirmResult, error)

	// Unsubscribe is idempotent, including for unknown emails.
	Unsubscribe(ctx context.Context, email string) error
}

// ConfirmResult describes a successful confirmation.
type ConfirmResult struct {
	Email            string
	AlreadyConfirmed bool
}
