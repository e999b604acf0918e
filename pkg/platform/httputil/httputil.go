// Package httputil centralizes JSON encoding and domain error translation so
// every handler returns the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	pkgerrors "shelfcheck/pkg/errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded error into the JSON error envelope. Internal
// errors omit the description so operator detail never leaks to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != pkgerrors.CodeInternal {
		body["error_description"] = pkgerrors.MessageOf(err)
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), body)
}

// Decode strictly decodes a JSON request body into T. Unknown fields are
// rejected so typos in payloads fail loudly instead of validating nothing.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "invalid JSON request body")
	}
	return v, nil
}
