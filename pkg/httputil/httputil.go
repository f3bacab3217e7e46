// Package httputil centralizes JSON response writing so every handler emits
// the same envelope.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the standard error envelope. Internal and
// source errors omit the description so storage detail never leaks to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	switch code {
	case apperrors.CodeInternal, apperrors.CodeUnavailable:
		// generic message only
	default:
		body["error_description"] = err.Error()
	}
	WriteJSON(w, apperrors.ToHTTPStatus(code), body)
}
