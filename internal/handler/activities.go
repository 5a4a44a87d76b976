package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListActivities handles GET /activities. The body is an object keyed by
// activity name, in display order.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	roster, err := s.activities.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// Signup handles POST /activities/{activity_name}/signup?email=.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	name, email, ok := s.bindParams(w, r)
	if !ok {
		return
	}
	if err := s.activities.Signup(r.Context(), name, email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)})
}

// Unregister handles POST /activities/{activity_name}/unregister?email=.
func (s *Server) Unregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := s.bindParams(w, r)
	if !ok {
		return
	}
	if err := s.activities.Unregister(r.Context(), name, email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)})
}

// bindParams decodes the activity_name path segment and the required email
// query parameter. On failure it writes the error response and returns false.
func (s *Server) bindParams(w http.ResponseWriter, r *http.Request) (name, email string, ok bool) {
	err := runtime.BindStyledParameterWithOptions("simple", "activity_name", chi.URLParam(r, "activity_name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid activity name"})
		return "", "", false
	}

	if err := runtime.BindQueryParameter("form", true, true, "email", r.URL.Query(), &email); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "email is required"})
		return "", "", false
	}
	return name, email, true
}
