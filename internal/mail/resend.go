package mail

import (
	"context"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender using apiKey and the given From identity.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

var _ Sender = (*ResendSender)(nil)

// Send posts msg to Resend.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return errors.Wrapf(err, "send email %q", msg.Subject)
	}
	return nil
}
