package model

import "time"

// ClientLogLevel is the severity reported by the browser.
type ClientLogLevel string

const (
	ClientLogError ClientLogLevel = "error"
	ClientLogWarn  ClientLogLevel = "warn"
	ClientLogInfo  ClientLogLevel = "info"
	ClientLogDebug ClientLogLevel = "debug"
)

// ClientLogEntry is a log line relayed from the frontend. It is written to
// the server log and never stored.
type ClientLogEntry struct {
	Level      ClientLogLevel `json:"level"`
	Message    string         `json:"message"`
	Timestamp  string         `json:"timestamp"`
	Context    map[string]any `json:"context,omitempty"`
	Error      map[string]any `json:"error,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	IP         string         `json:"ip,omitempty"`
	ReceivedAt time.Time      `json:"receivedAt"`
}
