package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/thefavrs/backend/internal/errs"
	"github.com/thefavrs/backend/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// decodeJSONBody checks the content type and decodes a JSON body into its
// top-level fields. Unparseable, null and oversize bodies are INVALID_JSON.
func decodeJSONBody(w http.ResponseWriter, r *http.Request) (validation.Fields, *errs.Error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, errs.BadRequest(errs.CodeInvalidContentType, "Content-Type must be application/json")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.BadRequest(errs.CodeInvalidJSON, "Invalid JSON format")
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil || v == nil {
		return nil, errs.BadRequest(errs.CodeInvalidJSON, "Invalid JSON format")
	}
	// Arrays and scalars parse but carry no fields, so the first rule fails.
	obj, _ := v.(map[string]any)
	if obj == nil {
		obj = map[string]any{}
	}
	return validation.Fields(obj), nil
}
