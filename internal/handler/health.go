package handler

import (
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /api/health by pinging the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Message: "database unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "TheFavrs API",
	})
}
