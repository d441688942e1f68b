package handler

import (
	"encoding/json"
	"net/http"

	"github.com/thefavrs/backend/internal/errs"
)

// cacheControlContent lets browsers keep content for 5 minutes and shared
// caches for 10.
const cacheControlContent = "public, max-age=300, s-maxage=600"

// successResponse is the minimum body of every successful mutation.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(message string) successResponse {
	return successResponse{Success: true, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *errs.Error) {
	writeJSON(w, e.Status, e)
}
