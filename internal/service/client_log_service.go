package service

import (
	"context"
	"time"

	"github.com/thefavrs/backend/internal/metrics"
	"github.com/thefavrs/backend/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ClientLogService relays browser log entries to the server log.
// Entries are not stored.
type ClientLogService interface {
	Record(ctx context.Context, entry *model.ClientLogEntry)
}

type clientLogServiceImpl struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewClientLogService writes entries to a child logger named "client".
// Stack traces are suppressed.
func NewClientLogService(logger *zap.Logger) ClientLogService {
	return &clientLogServiceImpl{
		logger: logger.Named("client").WithOptions(zap.AddStacktrace(zapcore.DPanicLevel)),
		now:    time.Now,
	}
}

// Record stamps ReceivedAt and logs the entry at its own level.
func (s *clientLogServiceImpl) Record(_ context.Context, entry *model.ClientLogEntry) {
	entry.ReceivedAt = s.now().UTC()

	fields := []zap.Field{
		zap.String("timestamp", entry.Timestamp),
		zap.String("userAgent", entry.UserAgent),
		zap.String("ip", entry.IP),
		zap.Time("receivedAt", entry.ReceivedAt),
	}
	if entry.Context != nil {
		fields = append(fields, zap.Any("context", entry.Context))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Any("error", entry.Error))
	}

	if ce := s.logger.Check(clientLevel(entry.Level), entry.Message); ce != nil {
		ce.Write(fields...)
	}
	metrics.IncrementClientLog(string(entry.Level))
}

func clientLevel(l model.ClientLogLevel) zapcore.Level {
	switch l {
	case model.ClientLogError:
		return zapcore.ErrorLevel
	case model.ClientLogWarn:
		return zapcore.WarnLevel
	case model.ClientLogDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
