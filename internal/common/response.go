package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithServiceError writes err using its mapped status. Server errors
// are logged and replaced by a generic message.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		RespondWithError(w, status, http.StatusText(status))
		return
	}
	RespondWithError(w, status, PublicMessage(err))
}

// PublicMessage returns the client-facing part of a wrapped error: the text
// before the first wrapped sentinel, or the sentinel itself.
func PublicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrNotFound, ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrConflict, ErrValidation, ErrLockNotAcquired} {
		if errors.Is(err, sentinel) {
			suffix := ": " + sentinel.Error()
			if i := strings.Index(msg, suffix); i > 0 {
				return msg[:i]
			}
			return sentinel.Error()
		}
	}
	if IsUniqueViolation(err) {
		return ErrConflict.Error()
	}
	if IsForeignKeyViolation(err) {
		return "referenced record does not exist"
	}
	return msg
}

// NoCache marks a response as not cacheable by browsers or proxies.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
}
