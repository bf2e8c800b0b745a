// Package handlers implements the Notely REST API. Handler groups are
// plain structs with their dependencies injected; every response uses the
// same JSON envelope, and every failure funnels through writeError so the
// apperr taxonomy maps to HTTP status codes in exactly one place.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"notely/internal/apperr"
)

// maxBodyBytes caps request bodies; post content is the largest legitimate
// payload.
const maxBodyBytes = 1 << 20

// errorResponse is the error envelope: {"success":false,"message":...}.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// dataResponse wraps a single entity.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// listResponse wraps an unpaginated collection with its length.
type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// pagedResponse wraps one page of a filtered collection. Count is the
// pre-pagination total of matching rows.
type pagedResponse struct {
	Success     bool `json:"success"`
	Count       int  `json:"count"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Data        any  `json:"data"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeData responds with a single entity envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

// writeError maps a domain error to its HTTP status. Unexpected errors are
// logged in full and surfaced as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	if e, ok := apperr.As(err); ok {
		writeJSON(w, statusFor(e.Kind), errorResponse{Message: e.Message})
		return
	}
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into v. Unknown fields are rejected
// so typos in client payloads fail loudly instead of being dropped.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("Invalid request body: %v", err)
	}
	// A second decode must hit EOF; trailing garbage is rejected.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation("Invalid request body: unexpected trailing data")
	}
	return nil
}

// decodeWebhook reads a provider webhook body. Unlike decodeBody it
// tolerates unknown fields: the provider's event schema carries far more
// than the handful of fields mirrored here, and grows without notice.
func decodeWebhook(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return apperr.Validation("Invalid event payload: %v", err)
	}
	return nil
}
