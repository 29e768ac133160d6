package api

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes an {"error": msg} body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Unexpected writes the 500 catch-all. The raw error string is part of
// the response body, matching the public behavior of this API.
func Unexpected(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, err.Error())
}

// FieldError is one failed request-body check, keyed by JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed writes the structured per-field validation envelope.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"errors":  errs,
	})
}
