package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/activity-roster/internal/domain"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a status and detail text. Anything
// that is not a domain sentinel is logged and reported as a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Activity not found"})
	case errors.Is(err, domain.ErrAlreadySignedUp):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Student is already signed up for this activity"})
	case errors.Is(err, domain.ErrNotSignedUp):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Student is not signed up for this activity"})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: validationMessage(err)})
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

// validationMessage extracts the human-readable part of a wrapped
// domain.ErrValidation.
// e.g. "service.ActivityService.Signup: validation error: email is required" → "email is required"
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
