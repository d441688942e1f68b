// Package errs defines the API error vocabulary.
//
// Every failed request is answered with the same JSON shape:
//
//	{ "error": "<human message>", "code": "<MACHINE_CODE>", "details": "<optional>" }
//
// Codes are stable and meant for clients; messages are for people.
package errs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Shared codes. Resource-specific validation codes live next to their rule sets.
const (
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
	CodeSchema             = "SCHEMA_ERROR"
)

// Error is an API error with its HTTP status.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code"`
	// Details carries operational diagnostics; only schema errors set it.
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// New creates an Error with an explicit status.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// BadRequest is a 400 client input error.
func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

// NotFound is a 404 for an absent resource or token.
func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// Conflict is a 409 for state that blocks the requested action.
func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// MethodNotAllowed is the 405 returned for unlisted methods.
func MethodNotAllowed() *Error {
	return New(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
}

// RouteNotFound is the 404 returned for unknown paths.
func RouteNotFound() *Error {
	return New(http.StatusNotFound, CodeNotFound, "Not found")
}

// TooManyRequests is the 429 returned by the rate limiter.
func TooManyRequests() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, "Too many requests, please try again later")
}

// Internal is the generic 500; it never exposes the underlying cause.
func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error")
}

// Database is a 500 for a failed store call.
func Database(message string) *Error {
	return New(http.StatusInternalServerError, CodeDatabase, message)
}

// Schema is a 500 for schema drift, carrying the store message as details.
func Schema(details string) *Error {
	e := New(http.StatusInternalServerError, CodeSchema,
		"Database schema not properly configured. Please ensure migrations have been applied.")
	e.Details = details
	return e
}

// FromStore maps a store failure to SCHEMA_ERROR when it looks like schema
// drift, and to DATABASE_ERROR with fallbackMessage otherwise. An *Error
// already in the chain is returned unchanged.
func FromStore(err error, fallbackMessage string) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if IsSchemaError(err) {
		return Schema(storeMessage(err))
	}
	return Database(fallbackMessage)
}

// Postgres SQLSTATE codes for schema drift.
const (
	sqlStateUndefinedColumn = "42703"
	sqlStateUndefinedTable  = "42P01"
)

// IsSchemaError reports whether err indicates missing tables or columns.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUndefinedColumn, sqlStateUndefinedTable:
			return true
		}
	}
	msg := storeMessage(err)
	return strings.Contains(msg, "schema cache") || strings.Contains(msg, "column")
}

func storeMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
