package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of sending them.
// Used in development when RESEND_API_KEY is unset.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("mail")}
}

var _ Sender = (*LogSender)(nil)

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent (no provider configured)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
