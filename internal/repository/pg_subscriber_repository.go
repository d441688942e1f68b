package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/model"
)

// SubscriberRepository defines persistence for newsletter subscribers.
type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	FindByToken(ctx context.Context, token string) (*model.NewsletterSubscriber, error)
	// UpsertPending creates the row, or resets an unsubscribed row, to pending.
	// Returns ErrConflict when the existing row is not unsubscribed.
	UpsertPending(ctx context.Context, sub *model.NewsletterSubscriber) error
	// MarkConfirmed confirms a pending row. Returns ErrConflict when the row
	// is no longer pending.
	MarkConfirmed(ctx context.Context, id string, at time.Time) error
	// MarkUnsubscribed unsubscribes the row for email if it is not already.
	MarkUnsubscribed(ctx context.Context, email string, at time.Time) error
}

// PgSubscriberRepository is the PostgreSQL implementation of SubscriberRepository.
type PgSubscriberRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriberRepository creates a PgSubscriberRepository backed by the given pool.
func NewPgSubscriberRepository(pool *pgxpool.Pool) *PgSubscriberRepository {
	return &PgSubscriberRepository{pool: pool}
}

var _ SubscriberRepository = (*PgSubscriberRepository)(nil)

const subscriberColumns = `id, email, status, subscribed_at, confirmed_at, unsubscribed_at,
	confirmation_token::text, token_expires_at`

func scanSubscriber(row pgx.Row) (*model.NewsletterSubscriber, error) {
	var (
		s         model.NewsletterSubscriber
		status    string
		token     *string
		expiresAt *time.Time
	)
	err := row.Scan(&s.ID, &s.Email, &status, &s.SubscribedAt, &s.ConfirmedAt, &s.UnsubscribedAt,
		&token, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Status = model.SubscriberStatus(status)
	if token != nil {
		s.ConfirmationToken = *token
	}
	if expiresAt != nil {
		s.TokenExpiresAt = *expiresAt
	}
	return &s, nil
}

// FindByEmail returns the subscriber with the given (already lowercased) email.
func (r *PgSubscriberRepository) FindByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	s, err := scanSubscriber(r.pool.QueryRow(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find subscriber by email: %w", err)
	}
	return s, err
}

// FindByToken returns the subscriber holding the given confirmation token.
func (r *PgSubscriberRepository) FindByToken(ctx context.Context, token string) (*model.NewsletterSubscriber, error) {
	s, err := scanSubscriber(r.pool.QueryRow(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE confirmation_token = $1::uuid`, token))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find subscriber by token: %w", err)
	}
	return s, err
}

// UpsertPending inserts sub as pending keyed on email. The update branch only
// fires for unsubscribed rows, so a concurrent subscribe that already made the
// row pending or confirmed is reported as ErrConflict instead of overwritten.
// sub.ID is populated on success.
func (r *PgSubscriberRepository) UpsertPending(ctx context.Context, sub *model.NewsletterSubscriber) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO newsletter_subscribers
		   (email, status, subscribed_at, confirmed_at, unsubscribed_at, confirmation_token, token_expires_at)
		 VALUES ($1, 'pending', $2, NULL, NULL, $3::uuid, $4)
		 ON CONFLICT (email) DO UPDATE SET
		   status = 'pending',
		   subscribed_at = EXCLUDED.subscribed_at,
		   confirmed_at = NULL,
		   unsubscribed_at = NULL,
		   confirmation_token = EXCLUDED.confirmation_token,
		   token_expires_at = EXCLUDED.token_expires_at
		 WHERE newsletter_subscribers.status = 'unsubscribed'
		 RETURNING id`,
		sub.Email, sub.SubscribedAt, sub.ConfirmationToken, sub.TokenExpiresAt,
	).Scan(&sub.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	sub.Status = model.SubscriberPending
	sub.ConfirmedAt = nil
	sub.UnsubscribedAt = nil
	return nil
}

// MarkConfirmed moves a pending subscriber to confirmed.
func (r *PgSubscriberRepository) MarkConfirmed(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers
		 SET status = 'confirmed', confirmed_at = $2
		 WHERE id = $1 AND status = 'pending'`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// MarkUnsubscribed is a no-op when the row is missing or already unsubscribed.
func (r *PgSubscriberRepository) MarkUnsubscribed(ctx context.Context, email string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers
		 SET status = 'unsubscribed', unsubscribed_at = $2
		 WHERE email = $1 AND status <> 'unsubscribed'`,
		email, at,
	)
	if err != nil {
		return fmt.Errorf("unsubscribe subscriber: %w", err)
	}
	return nil
}
