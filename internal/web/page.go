package web

import (
	"sync"

	"github.com/pkordes/activity-roster/internal/roster"
	"github.com/pkordes/activity-roster/internal/view"
)

// page is the view.Surface for a single HTTP response. It records what the
// view drew while the request ran and is rendered once the view returns.
// Banner hides that fire after the response was written are harmless.
type page struct {
	mu sync.Mutex

	model   *view.Model
	failure string

	formActivity string
	formEmail    string

	message *view.Message
}

var _ view.Surface = (*page)(nil)

func newPage() *page {
	return &page{}
}

// fillForm pre-populates the signup form with the submitted values so a
// rejected signup keeps what the user typed.
func (p *page) fillForm(activity, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formActivity = activity
	p.formEmail = email
}

func (p *page) ShowRoster(m view.Model) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = &m
	p.failure = ""
}

func (p *page) ShowRosterFailure(notice string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = nil
	p.failure = notice
}

func (p *page) ResetSignupForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formActivity = ""
	p.formEmail = ""
}

func (p *page) ShowMessage(m view.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = &m
}

// HideMessage clears the banner only if m is still the message on display.
func (p *page) HideMessage(m view.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.message != nil && p.message.ID == m.ID {
		p.message = nil
	}
}

// data builds the template input. Whatever the request did not draw itself
// comes from the latest snapshot, so a failed fetch still renders the
// previous selector options.
func (p *page) data(store *view.Store, hideAfterMS int64) pageData {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := pageData{
		Failure:     p.failure,
		Selected:    p.formActivity,
		Email:       p.formEmail,
		Message:     p.message,
		HideAfterMS: hideAfterMS,
	}

	snap, haveSnap := store.Current()
	switch {
	case p.model != nil:
		d.Cards = p.model.Cards
		d.Options = p.model.Options
	case haveSnap:
		d.Options = snap.Model.Options
		if p.failure == "" {
			d.Cards = snap.Model.Cards
		}
	case p.failure == "":
		// A rejected action reached a server that has never loaded the
		// roster. Nothing client-side will fetch it later.
		d.Failure = roster.LoadFailedText
	}
	return d
}
