// Package httputil centralizes JSON encoding and error mapping for HTTP
// handlers so transport concerns stay out of domain code.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "chassisd/pkg/domain-errors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and a JSON body of
// the form {"error": code, "error_description": message}. Internal errors
// omit the description so infrastructure details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusOf(code)

	body := map[string]string{"error": string(code)}
	if status < http.StatusInternalServerError {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, status, body)
}

func statusOf(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidParameter, dErrors.CodeInvalidCharacter,
		dErrors.CodeYearOutOfRange, dErrors.CodeAmbiguousPattern:
		return http.StatusBadRequest
	case dErrors.CodeUnknownManufacturer:
		return http.StatusNotFound
	case dErrors.CodeStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Decode parses a JSON request body into T, reporting malformed bodies as
// a 400 with a bad-request error payload. The bool result tells the
// handler whether to continue.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidParameter, "malformed request body"))
		return v, false
	}
	return v, true
}
