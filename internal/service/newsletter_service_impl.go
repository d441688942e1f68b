package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/repository"
)

// NewsletterServiceImpl is the production implementation of NewsletterService.
//
// The store is the only arbiter of concurrent requests. Every write is
// conditional on the state we read, and a write that loses a race re-reads
// the row and answers from its current state.
type NewsletterServiceImpl struct {
	repo     repository.SubscriberRepository
	notify   *Notifications
	tokenTTL time.Duration

	now      func() time.Time
	newToken func() string
}

// NewNewsletterService creates a NewsletterServiceImpl. notify may be nil.
func NewNewsletterService(repo repository.SubscriberRepository, notify *Notifications, tokenTTL time.Duration) *NewsletterServiceImpl {
	return &NewsletterServiceImpl{
		repo:     repo,
		notify:   notify,
		tokenTTL: tokenTTL,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

var _ NewsletterService = (*NewsletterServiceImpl)(nil)

func (s *NewsletterServiceImpl) Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := activeStatusError(existing.Status); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	sub := &model.NewsletterSubscriber{
		Email:             email,
		Status:            model.SubscriberPending,
		SubscribedAt:      now,
		ConfirmationToken: s.newToken(),
		TokenExpiresAt:    now.Add(s.tokenTTL),
	}
	if err := s.repo.UpsertPending(ctx, sub); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		// Another request activated the row between our read and write.
		current, ferr := s.repo.FindByEmail(ctx, email)
		if ferr != nil {
			return nil, fmt.Errorf("re-read subscriber after conflict: %w", ferr)
		}
		if serr := activeStatusError(current.Status); serr != nil {
			return nil, serr
		}
		return nil, fmt.Errorf("subscribe %s: %w", email, err)
	}

	s.notify.newsletterSignup(ctx, sub)
	return sub, nil
}

func activeStatusError(status model.SubscriberStatus) error {
	switch status {
	case model.SubscriberConfirmed:
		return ErrAlreadySubscribed
	case model.SubscriberPending:
		return ErrPendingConfirmation
	}
	return nil
}

func (s *NewsletterServiceImpl) Confirm(ctx context.Context, token string) (*ConfirmResult, error) {
	sub, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	switch sub.Status {
	case model.SubscriberConfirmed:
		return &ConfirmResult{Email: sub.Email, AlreadyConfirmed: true}, nil
	case model.SubscriberUnsubscribed:
		return nil, ErrEmailUnsubscribed
	}
	if sub.TokenExpired(now) {
		return nil, ErrInvalidToken
	}

	err = s.repo.MarkConfirmed(ctx, sub.ID, now)
	if errors.Is(err, repository.ErrConflict) {
		return s.confirmAfterConflict(ctx, token)
	}
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{Email: sub.Email}, nil
}

// confirmAfterConflict answers from the row's current state once our
// conditional update found it no longer pending.
func (s *NewsletterServiceImpl) confirmAfterConflict(ctx context.Context, token string) (*ConfirmResult, error) {
	sub, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		// re-subscribed with a new token
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("re-read subscriber after conflict: %w", err)
	}
	switch sub.Status {
	case model.SubscriberConfirmed:
		return &ConfirmResult{Email: sub.Email, AlreadyConfirmed: true}, nil
	case model.SubscriberUnsubscribed:
		return nil, ErrEmailUnsubscribed
	}
	return nil, ErrInvalidToken
}

func (s *NewsletterServiceImpl) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	sub, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sub.Status == model.SubscriberUnsubscribed {
		return nil
	}
	return s.repo.MarkUnsubscribed(ctx, email, s.now().UTC())
}
