package mail

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/thefavrs/backend/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// ErrNoRecipients is returned by admin notifications when no admin
// address is configured.
var ErrNoRecipients = errors.New("mail: no notification recipients configured")

// NotifierConfig holds the site identity used in rendered messages.
type NotifierConfig struct {
	SiteName string
	// SiteURL is the public base URL; confirmation links are built from it.
	SiteURL    string
	Recipients []string
}

// Notifier renders and sends the site's notification emails.
type Notifier struct {
	sender Sender
	cfg    NotifierConfig
}

// NewNotifier creates a Notifier.
func NewNotifier(sender Sender, cfg NotifierConfig) *Notifier {
	return &Notifier{sender: sender, cfg: cfg}
}

// ContactReceived tells the admins about a new contact submission.
func (n *Notifier) ContactReceived(ctx context.Context, sub *model.ContactSubmission) error {
	if len(n.cfg.Recipients) == 0 {
		return ErrNoRecipients
	}
	data := struct {
		SiteName                                   string
		FirstName, LastName, Email, Phone, Message string
	}{n.cfg.SiteName, sub.FirstName, sub.LastName, sub.Email, sub.Phone, sub.Message}

	msg, err := render("contact_notification", data)
	if err != nil {
		return err
	}
	msg.To = n.cfg.Recipients
	msg.Subject = "New Contact Form Submission from " + sub.FullName()
	return n.sender.Send(ctx, msg)
}

// NewsletterSignup tells the admins about a new subscriber.
func (n *Notifier) NewsletterSignup(ctx context.Context, sub *model.NewsletterSubscriber) error {
	if len(n.cfg.Recipients) == 0 {
		return ErrNoRecipients
	}
	data := struct {
		SiteName, Email, Date string
	}{n.cfg.SiteName, sub.Email, sub.SubscribedAt.UTC().Format(time.RFC1123)}

	msg, err := render("newsletter_notification", data)
	if err != nil {
		return err
	}
	msg.To = n.cfg.Recipients
	msg.Subject = "New Newsletter Signup: " + sub.Email
	return n.sender.Send(ctx, msg)
}

// Welcome sends the subscriber their confirmation link.
func (n *Notifier) Welcome(ctx context.Context, sub *model.NewsletterSubscriber) error {
	link, err := n.ConfirmURL(sub.ConfirmationToken)
	if err != nil {
		return err
	}
	data := struct {
		SiteName, ConfirmURL, ExpiresAt string
	}{n.cfg.SiteName, link, sub.TokenExpiresAt.UTC().Format("January 2, 2006")}

	msg, err := render("newsletter_welcome", data)
	if err != nil {
		return err
	}
	msg.To = []string{sub.Email}
	msg.Subject = "Welcome to " + n.cfg.SiteName + " Newsletter! Please confirm your subscription"
	return n.sender.Send(ctx, msg)
}

// ConfirmURL returns SiteURL/api/newsletter/confirm?token=<token>.
func (n *Notifier) ConfirmURL(token string) (string, error) {
	u, err := url.Parse(n.cfg.SiteURL)
	if err != nil {
		return "", errors.Wrap(err, "parse site url")
	}
	u = u.JoinPath("api", "newsletter", "confirm")
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

func render(name string, data any) (Message, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return Message{}, errors.Wrapf(err, "render %s html", name)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return Message{}, errors.Wrapf(err, "render %s text", name)
	}
	return Message{HTML: html.String(), Text: text.String()}, nil
}
