package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/model"
)

// ContactRepository defines the persistence interface for contact submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	Save(ctx context.Context, sub *model.ContactSubmission) error
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Save inserts a contact_submissions row and populates sub.ID from RETURNING.
// An empty message is stored as NULL.
func (r *PgContactRepository) Save(ctx context.Context, sub *model.ContactSubmission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions (first_name, last_name, email, phone, message, submitted_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		 RETURNING id`,
		sub.FirstName, sub.LastName, sub.Email, sub.Phone, sub.Message, sub.SubmittedAt,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}
