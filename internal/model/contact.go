package model

import "time"

// ContactSubmission is a message submitted via the site contact form.
// Rows are insert-only.
type ContactSubmission struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// FullName returns "First Last".
func (c *ContactSubmission) FullName() string {
	return c.FirstName + " " + c.LastName
}
