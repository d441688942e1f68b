package handler

import (
	"net/http"
	"strings"

	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/service"
	"github.com/thefavrs/backend/internal/validation"
)

var logRules = validation.RuleSet{
	{Field: "level", Code: "INVALID_LEVEL", Message: "Level is required and must be a string", Check: validation.NonEmptyString()},
	{Field: "message", Code: "INVALID_MESSAGE", Message: "Message is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "timestamp", Code: "INVALID_TIMESTAMP", Message: "Timestamp is required and must be a string", Check: validation.NonEmptyString()},
	{Field: "level", Code: "INVALID_LEVEL_VALUE", Message: "Level must be one of: error, warn, info, debug", Check: validation.Tag("oneof=error warn info debug")},
	{Field: "timestamp", Code: "INVALID_TIMESTAMP_FORMAT", Message: "Timestamp must be a valid ISO 8601 date string", Check: validation.Tag("iso8601")},
	{Field: "message", Code: "MESSAGE_TOO_LONG", Message: "Message must be 10000 characters or less", Check: validation.MaxLenIfString(maxMessageLength)},
	{Field: "context", Code: "INVALID_CONTEXT", Message: "Context must be an object", Optional: true, Check: validation.IsObject()},
	{Field: "error", Code: "INVALID_ERROR", Message: "Error must be an object", Optional: true, Check: validation.IsObject()},
}

// LogHandler relays browser log entries to the server log.
type LogHandler struct {
	clientLogService service.ClientLogService
}

// NewLogHandler creates a LogHandler with the given service.
func NewLogHandler(clientLogService service.ClientLogService) *LogHandler {
	return &LogHandler{clientLogService: clientLogService}
}

// Relay handles POST /api/logs. The entry is accepted, not stored.
func (h *LogHandler) Relay(w http.ResponseWriter, r *http.Request) {
	fields, e := decodeJSONBody(w, r)
	if e != nil {
		writeError(w, e)
		return
	}
	if e := logRules.Validate(fields); e != nil {
		writeError(w, e)
		return
	}

	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	h.clientLogService.Record(r.Context(), &model.ClientLogEntry{
		Level:     model.ClientLogLevel(fields.String("level")),
		Message:   strings.TrimSpace(fields.String("message")),
		Timestamp: fields.String("timestamp"),
		Context:   fields.Object("context"),
		Error:     fields.Object("error"),
		UserAgent: r.UserAgent(),
		IP:        ip,
	})

	writeJSON(w, http.StatusAccepted, ok("Log entry received successfully"))
}
