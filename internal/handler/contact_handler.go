package handler

import (
	"net/http"

	"github.com/thefavrs/backend/internal/errs"
	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/service"
	"github.com/thefavrs/backend/internal/validation"
	"go.uber.org/zap"
)

const (
	maxNameLength    = 100
	maxPhoneLength   = 20
	maxEmailLength   = 255
	maxMessageLength = 10000
)

// contactRules are evaluated in order; the first failure is returned.
var contactRules = validation.RuleSet{
	{Field: "firstName", Code: "INVALID_FIRST_NAME", Message: "First name is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "lastName", Code: "INVALID_LAST_NAME", Message: "Last name is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "phone", Code: "INVALID_PHONE", Message: "Phone is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "honeypot", Code: "SPAM_DETECTED", Message: "Spam detected", Optional: true, Check: validation.Blank()},
	{Field: "email", Code: "INVALID_EMAIL", Message: "Email is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "email", Code: "INVALID_EMAIL_FORMAT", Message: "Email must be a valid email address", Check: validation.Tag("site_email")},
	{Field: "firstName", Code: "FIRST_NAME_TOO_LONG", Message: "First name must be 100 characters or less", Check: validation.MaxLenIfString(maxNameLength)},
	{Field: "lastName", Code: "LAST_NAME_TOO_LONG", Message: "Last name must be 100 characters or less", Check: validation.MaxLenIfString(maxNameLength)},
	{Field: "phone", Code: "PHONE_TOO_LONG", Message: "Phone must be 20 characters or less", Check: validation.MaxLenIfString(maxPhoneLength)},
	{Field: "email", Code: "EMAIL_TOO_LONG", Message: "Email must be 255 characters or less", Check: validation.MaxLenIfString(maxEmailLength)},
	{Field: "message", Code: "INVALID_MESSAGE", Message: "Message must be a string", Optional: true, Check: validation.StringOrFalsy()},
	{Field: "message", Code: "MESSAGE_TOO_LONG", Message: "Message must be 10000 characters or less", Optional: true, Check: validation.MaxLenIfString(maxMessageLength)},
}

// ContactHandler handles contact form submission.
type ContactHandler struct {
	contactService service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, logger: logger}
}

type submitResponse struct {
	successResponse
	SubmissionID string `json:"submissionId"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fields, e := decodeJSONBody(w, r)
	if e != nil {
		writeError(w, e)
		return
	}
	if e := contactRules.Validate(fields); e != nil {
		writeError(w, e)
		return
	}

	sub := &model.ContactSubmission{
		FirstName: fields.String("firstName"),
		LastName:  fields.String("lastName"),
		Email:     fields.String("email"),
		Phone:     fields.String("phone"),
		Message:   fields.String("message"),
	}
	if err := h.contactService.Submit(r.Context(), sub); err != nil {
		h.logger.Error("contact submission insert failed", zap.Error(err))
		writeError(w, errs.FromStore(err, "Failed to submit contact form"))
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		successResponse: ok("Contact form submitted successfully"),
		SubmissionID:    sub.ID,
	})
}
