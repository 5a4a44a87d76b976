package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkordes/activity-roster/internal/roster"
	"github.com/pkordes/activity-roster/internal/view"
)

// textSurface prints the roster view as plain text. The process exits long
// before a banner would hide, so hides are ignored.
type textSurface struct {
	mu  sync.Mutex
	out io.Writer
}

func newTextSurface(out io.Writer) *textSurface {
	return &textSurface{out: out}
}

func (t *textSurface) ShowRoster(m view.Model) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, c := range m.Cards {
		if i > 0 {
			fmt.Fprintln(t.out)
		}
		writeCard(t.out, c)
	}
}

func (t *textSurface) ShowRosterFailure(notice string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, notice)
}

func (t *textSurface) ResetSignupForm() {}

func (t *textSurface) ShowMessage(m view.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s: %s\n\n", m.Kind, m.Text)
}

func (t *textSurface) HideMessage(view.Message) {}

func writeCard(w io.Writer, c roster.Card) {
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.Availability())
	fmt.Fprintf(w, "  %s\n", c.Description)
	fmt.Fprintf(w, "  Schedule: %s\n", c.Schedule)
	if !c.HasParticipants() {
		fmt.Fprintf(w, "  %s\n", roster.NoParticipantsText)
		return
	}
	fmt.Fprintln(w, "  Participants:")
	for _, p := range c.Participants {
		fmt.Fprintf(w, "    [%s] %s <%s>\n", p.Initials, p.Name, p.Email)
	}
}
