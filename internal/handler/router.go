package handler

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thefavrs/backend/internal/errs"
	"go.uber.org/zap"
)

// Route names, used as rate-limit keys and metric labels.
const (
	RouteContact               = "contact"
	RouteNewsletterSubscribe   = "newsletter_subscribe"
	RouteNewsletterConfirm     = "newsletter_confirm"
	RouteNewsletterUnsubscribe = "newsletter_unsubscribe"
	RouteContent               = "content"
	RouteServices              = "services"
	RouteTeam                  = "team"
	RouteLogs                  = "logs"
)

// RateLimits holds one limiter per traffic class. A nil limiter disables
// limiting for that class.
type RateLimits struct {
	Writes *RateLimiter
	Logs   *RateLimiter
	Reads  *RateLimiter
}

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Base       *Handler
	Contact    *ContactHandler
	Newsletter *NewsletterHandler
	Content    *ContentHandler
	Logs       *LogHandler
	Limits     RateLimits
	// Metrics serves GET /metrics; nil means the default prometheus registry.
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewRouter builds the API mux wrapped in the middleware chain
// recover -> request logger -> security headers -> CORS.
//
// Every path also gets a method-less pattern answering 405 in the API error
// shape, and unknown paths answer 404 NOT_FOUND.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	handle := func(method, path, route string, limiter *RateLimiter, fn http.HandlerFunc) {
		var h http.Handler = fn
		if limiter != nil {
			h = limiter.Middleware(route, h)
		}
		mux.Handle(method+" "+path, h)
	}

	handle(http.MethodGet, "/api/health", "health", nil, cfg.Base.Health)
	methodNotAllowed(mux, "/api/health", http.MethodGet)

	handle(http.MethodPost, "/api/contact", RouteContact, cfg.Limits.Writes, cfg.Contact.Submit)
	methodNotAllowed(mux, "/api/contact", http.MethodPost)

	handle(http.MethodPost, "/api/newsletter", RouteNewsletterSubscribe, cfg.Limits.Writes, cfg.Newsletter.Subscribe)
	methodNotAllowed(mux, "/api/newsletter", http.MethodPost)
	handle(http.MethodGet, "/api/newsletter/confirm", RouteNewsletterConfirm, cfg.Limits.Reads, cfg.Newsletter.Confirm)
	methodNotAllowed(mux, "/api/newsletter/confirm", http.MethodGet)
	handle(http.MethodPost, "/api/newsletter/unsubscribe", RouteNewsletterUnsubscribe, cfg.Limits.Writes, cfg.Newsletter.Unsubscribe)
	methodNotAllowed(mux, "/api/newsletter/unsubscribe", http.MethodPost)

	// Content: /api/content/{slug} is the only valid shape. The bare prefix
	// has no slug, deeper paths can never hold a valid one.
	handle(http.MethodGet, "/api/content/{slug}", RouteContent, cfg.Limits.Reads, cfg.Content.Page)
	handle(http.MethodGet, "/api/content/{$}", RouteContent, cfg.Limits.Reads, cfg.Content.MissingSlug)
	handle(http.MethodGet, "/api/content", RouteContent, cfg.Limits.Reads, cfg.Content.MissingSlug)
	handle(http.MethodGet, "/api/content/", RouteContent, cfg.Limits.Reads, cfg.Content.InvalidSlug)
	methodNotAllowed(mux, "/api/content", http.MethodGet)
	methodNotAllowed(mux, "/api/content/", http.MethodGet)

	handle(http.MethodGet, "/api/services", RouteServices, cfg.Limits.Reads, cfg.Content.Services)
	methodNotAllowed(mux, "/api/services", http.MethodGet)
	handle(http.MethodGet, "/api/team", RouteTeam, cfg.Limits.Reads, cfg.Content.Team)
	methodNotAllowed(mux, "/api/team", http.MethodGet)

	handle(http.MethodPost, "/api/logs", RouteLogs, cfg.Limits.Logs, cfg.Logs.Relay)
	methodNotAllowed(mux, "/api/logs", http.MethodPost)

	metricsHandler := cfg.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	mux.Handle("GET /metrics", metricsHandler)
	methodNotAllowed(mux, "/metrics", http.MethodGet)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.RouteNotFound())
	})

	var h http.Handler = cfg.Base.CORS(mux)
	h = SecurityHeaders(h)
	h = RequestLogger(cfg.Logger)(h)
	h = Recover(cfg.Logger)(h)
	return h
}

// methodNotAllowed registers a catch-all for path answering 405 with the
// allowed methods. GET routes also allow HEAD.
func methodNotAllowed(mux *http.ServeMux, path string, allowed ...string) {
	for _, m := range allowed {
		if m == http.MethodGet {
			allowed = append(allowed, http.MethodHead)
			break
		}
	}
	allow := strings.Join(allowed, ", ")
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, errs.MethodNotAllowed())
	})
}
