package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/pkordes/activity-roster/internal/roster"
	"github.com/pkordes/activity-roster/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// staticFiles is the static directory with its prefix stripped.
func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: static assets missing: " + err.Error())
	}
	return sub
}

// pageData is the input of templates/index.html.
type pageData struct {
	Cards       []roster.Card
	Failure     string
	Options     []string
	Selected    string
	Email       string
	Message     *view.Message
	HideAfterMS int64
}

// NoParticipants is exposed to the template as a method so the text lives in
// one place.
func (pageData) NoParticipants() string {
	return roster.NoParticipantsText
}
