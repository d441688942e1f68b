package service

import (
	"context"
	"strings"
	"time"

	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	notify *Notifications
	now    func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
// notify may be nil.
func NewContactService(repo repository.ContactRepository, notify *Notifications) ContactService {
	return &contactServiceImpl{repo: repo, notify: notify, now: time.Now}
}

// Submit trims every field and lowercases the email before persisting.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.ContactSubmission) error {
	sub.FirstName = strings.TrimSpace(sub.FirstName)
	sub.LastName = strings.TrimSpace(sub.LastName)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Message = strings.TrimSpace(sub.Message)
	sub.Email = normalizeEmail(sub.Email)
	sub.SubmittedAt = s.now().UTC()

	if err := s.repo.Save(ctx, sub); err != nil {
		return err
	}
	s.notify.contactReceived(ctx, sub)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
