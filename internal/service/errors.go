package service

import "errors"

// Newsletter state errors. Handlers map each to its API code.
var (
	ErrAlreadySubscribed   = errors.New("email is already subscribed")
	ErrPendingConfirmation = errors.New("subscription is pending confirmation")
	ErrInvalidToken        = errors.New("invalid or expired confirmation token")
	ErrEmailUnsubscribed   = errors.New("cannot confirm unsubscribed email")
)
