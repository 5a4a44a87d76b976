// Package web serves the activity roster view as server-rendered HTML.
// Every request draws on its own page surface; the shared view.Store supplies
// whatever a request did not fetch itself.
package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/activity-roster/internal/view"
)

// Handler serves the roster page and its form actions.
type Handler struct {
	view *view.View
	log  *slog.Logger
}

// NewHandler constructs a Handler around v.
func NewHandler(v *view.View, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{view: v, log: log}
}

// Routes returns a router with every endpoint of the roster page mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/signup", h.Signup)
	r.Post("/unregister", h.Unregister)
	r.Get("/healthz", h.Health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFiles())))
	return r
}

// Index handles GET /. It fetches the roster and renders the page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p := newPage()
	// A failure has already been drawn on p and logged by the view.
	_ = h.view.Refresh(r.Context(), p)
	h.render(w, r, p)
}

// Signup handles POST /signup with form fields activity and email.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	activity, email, ok := h.formValues(w, r)
	if !ok {
		return
	}
	p := newPage()
	p.fillForm(activity, email)
	h.view.Signup(r.Context(), p, activity, email)
	h.render(w, r, p)
}

// Unregister handles POST /unregister with form fields activity and email.
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	activity, email, ok := h.formValues(w, r)
	if !ok {
		return
	}
	p := newPage()
	h.view.Unregister(r.Context(), p, activity, email)
	h.render(w, r, p)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// formValues reads the two form fields every action posts. Values are passed
// through untouched; the backend decides what is acceptable.
func (h *Handler) formValues(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return "", "", false
	}
	return r.PostFormValue("activity"), r.PostFormValue("email"), true
}

// render executes the page template into a buffer first so a template error
// still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, p *page) {
	data := p.data(h.view.Store(), h.view.HideAfter().Milliseconds())

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.log.ErrorContext(r.Context(), "render roster page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
