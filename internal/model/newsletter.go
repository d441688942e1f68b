package model

import "time"

// SubscriberStatus is the lifecycle state of a newsletter subscriber.
type SubscriberStatus string

const (
	SubscriberPending      SubscriberStatus = "pending"
	SubscriberConfirmed    SubscriberStatus = "confirmed"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// NewsletterSubscriber is one row of newsletter_subscribers, keyed by email.
//
// ConfirmationToken is a random UUID issued on every (re)subscribe and
// mailed to the subscriber; it is distinct from ID.
type NewsletterSubscriber struct {
	ID                string           `json:"id"`
	Email             string           `json:"email"`
	Status            SubscriberStatus `json:"status"`
	SubscribedAt      time.Time        `json:"subscribedAt"`
	ConfirmedAt       *time.Time       `json:"confirmedAt"`
	UnsubscribedAt    *time.Time       `json:"unsubscribedAt"`
	ConfirmationToken string           `json:"-"`
	TokenExpiresAt    time.Time        `json:"-"`
}

// TokenExpired reports whether the confirmation token is past its expiry at now.
func (s *NewsletterSubscriber) TokenExpired(now time.Time) bool {
	return !s.TokenExpiresAt.IsZero() && now.After(s.TokenExpiresAt)
}
