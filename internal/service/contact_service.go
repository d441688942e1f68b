package service

import (
	"context"

	"github.com/thefavrs/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit normalizes and stores a validated submission, then notifies the
	// admins. sub.ID and sub.SubmittedAt are populated on success.
	Submit(ctx context.Context, sub *model.ContactSubmission) error
}
