// Package mail sends transactional email.
//
// Sender is the narrow delivery contract; ResendSender talks to the Resend
// API and LogSender writes messages to the log when no API key is
// configured. Notifier renders the site's messages and hands them to a Sender.
package mail

import "context"

// Message is one outbound email. HTML and Text carry the same content.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message or fails synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
