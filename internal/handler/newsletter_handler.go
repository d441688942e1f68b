package handler

import (
	"errors"
	"net/http"

	"github.com/thefavrs/backend/internal/errs"
	"github.com/thefavrs/backend/internal/service"
	"github.com/thefavrs/backend/internal/validation"
	"go.uber.org/zap"
)

// emailRules validate the body of subscribe and unsubscribe.
// honeypot is accepted but not checked on these routes.
var emailRules = validation.RuleSet{
	{Field: "email", Code: "INVALID_EMAIL", Message: "Email is required and must be a non-empty string", Check: validation.NotBlank()},
	{Field: "email", Code: "INVALID_EMAIL_FORMAT", Message: "Email must be a valid email address", Check: validation.Tag("site_email")},
	{Field: "email", Code: "EMAIL_TOO_LONG", Message: "Email must be 255 characters or less", Check: validation.MaxLenIfString(maxEmailLength)},
}

// NewsletterHandler handles subscribe, confirm and unsubscribe.
type NewsletterHandler struct {
	newsletterService service.NewsletterService
	logger            *zap.Logger
}

// NewNewsletterHandler creates a NewsletterHandler with the given service.
func NewNewsletterHandler(newsletterService service.NewsletterService, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService, logger: logger}
}

type subscribeResponse struct {
	successResponse
	RequiresConfirmation bool `json:"requiresConfirmation"`
}

type confirmResponse struct {
	successResponse
	Email string `json:"email"`
}

// Subscribe handles POST /api/newsletter.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	fields, e := decodeJSONBody(w, r)
	if e != nil {
		writeError(w, e)
		return
	}
	if e := emailRules.Validate(fields); e != nil {
		writeError(w, e)
		return
	}

	_, err := h.newsletterService.Subscribe(r.Context(), fields.String("email"))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrAlreadySubscribed):
		writeError(w, errs.Conflict("ALREADY_SUBSCRIBED", "Email is already subscribed to the newsletter"))
		return
	case errors.Is(err, service.ErrPendingConfirmation):
		writeError(w, errs.Conflict("PENDING_CONFIRMATION", "Email subscription is pending confirmation"))
		return
	default:
		h.logger.Error("newsletter subscribe failed", zap.Error(err))
		writeError(w, errs.FromStore(err, "Failed to subscribe to newsletter"))
		return
	}

	writeJSON(w, http.StatusCreated, subscribeResponse{
		successResponse:      ok("Successfully subscribed to newsletter. Please check your email for confirmation."),
		RequiresConfirmation: true,
	})
}

// Confirm handles GET /api/newsletter/confirm?token=.
func (h *NewsletterHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, errs.BadRequest("MISSING_TOKEN", "Confirmation token is required"))
		return
	}
	if !validation.Value(token, "token_uuid") {
		writeError(w, errs.BadRequest("INVALID_TOKEN_FORMAT", "Invalid token format"))
		return
	}

	res, err := h.newsletterService.Confirm(r.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, errs.NotFound("INVALID_TOKEN", "Invalid or expired confirmation token"))
		return
	case errors.Is(err, service.ErrEmailUnsubscribed):
		writeError(w, errs.BadRequest("EMAIL_UNSUBSCRIBED", "Cannot confirm unsubscribed email"))
		return
	default:
		h.logger.Error("newsletter confirm failed", zap.Error(err))
		writeError(w, errs.Database("Failed to confirm subscription"))
		return
	}

	msg := "Email successfully confirmed for newsletter subscription"
	if res.AlreadyConfirmed {
		msg = "Email is already confirmed"
	}
	writeJSON(w, http.StatusOK, confirmResponse{successResponse: ok(msg), Email: res.Email})
}

// Unsubscribe handles POST /api/newsletter/unsubscribe. Unknown and already
// unsubscribed emails succeed.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	fields, e := decodeJSONBody(w, r)
	if e != nil {
		writeError(w, e)
		return
	}
	if e := emailRules.Validate(fields); e != nil {
		writeError(w, e)
		return
	}

	if err := h.newsletterService.Unsubscribe(r.Context(), fields.String("email")); err != nil {
		h.logger.Error("newsletter unsubscribe failed", zap.Error(err))
		writeError(w, errs.FromStore(err, "Failed to unsubscribe from newsletter"))
		return
	}
	writeJSON(w, http.StatusOK, ok("Email unsubscribed successfully"))
}
