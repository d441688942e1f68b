package handler

import (
	"errors"
	"net/http"

	"github.com/thefavrs/backend/internal/errs"
	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/repository"
	"github.com/thefavrs/backend/internal/service"
	"github.com/thefavrs/backend/internal/validation"
	"go.uber.org/zap"
)

// ContentHandler serves page content and the services/team listings.
// Every success is cacheable.
type ContentHandler struct {
	contentService service.ContentService
	logger         *zap.Logger
}

// NewContentHandler creates a ContentHandler with the given service.
func NewContentHandler(contentService service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, logger: logger}
}

func missingSlug() *errs.Error {
	return errs.BadRequest("MISSING_SLUG", "Slug parameter is required")
}

func invalidSlug() *errs.Error {
	return errs.BadRequest("INVALID_SLUG_FORMAT",
		"Invalid slug format. Slug must contain only lowercase letters, numbers, and hyphens.")
}

// Page handles GET /api/content/{slug}.
func (h *ContentHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, missingSlug())
		return
	}
	if !validation.Value(slug, "slug") {
		writeError(w, invalidSlug())
		return
	}

	page, err := h.contentService.GetPage(r.Context(), slug)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, errs.NotFound("CONTENT_NOT_FOUND", "Content not found"))
		return
	}
	if err != nil {
		h.logger.Error("content lookup failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, errs.FromStore(err, "Database error occurred"))
		return
	}

	w.Header().Set("Cache-Control", cacheControlContent)
	writeJSON(w, http.StatusOK, page)
}

// MissingSlug handles GET /api/content with no slug segment.
func (h *ContentHandler) MissingSlug(w http.ResponseWriter, r *http.Request) {
	writeError(w, missingSlug())
}

// InvalidSlug handles GET paths below /api/content/ that hold more than one
// segment, which can never be a valid slug.
func (h *ContentHandler) InvalidSlug(w http.ResponseWriter, r *http.Request) {
	writeError(w, invalidSlug())
}

type servicesResponse struct {
	Services []*model.ServiceOffering `json:"services"`
}

type teamResponse struct {
	Members []*model.TeamMember `json:"members"`
}

// Services handles GET /api/services.
func (h *ContentHandler) Services(w http.ResponseWriter, r *http.Request) {
	list, err := h.contentService.ListServices(r.Context())
	if err != nil {
		h.logger.Error("list services failed", zap.Error(err))
		writeError(w, errs.FromStore(err, "Database error occurred"))
		return
	}
	if list == nil {
		list = []*model.ServiceOffering{}
	}
	w.Header().Set("Cache-Control", cacheControlContent)
	writeJSON(w, http.StatusOK, servicesResponse{Services: list})
}

// Team handles GET /api/team.
func (h *ContentHandler) Team(w http.ResponseWriter, r *http.Request) {
	list, err := h.contentService.ListTeam(r.Context())
	if err != nil {
		h.logger.Error("list team failed", zap.Error(err))
		writeError(w, errs.FromStore(err, "Database error occurred"))
		return
	}
	if list == nil {
		list = []*model.TeamMember{}
	}
	w.Header().Set("Cache-Control", cacheControlContent)
	writeJSON(w, http.StatusOK, teamResponse{Members: list})
}
