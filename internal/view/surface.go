package view

import "github.com/pkordes/activity-roster/internal/roster"

// Model is everything a surface needs to draw a fetched roster: the cards and
// the names offered by the activity selector, both in roster order.
type Model struct {
	Cards   []roster.Card
	Options []string
}

// MessageKind selects the banner style.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is one banner message. ID is unique per View so a surface can tell
// whether a hide request still refers to the message on screen.
type Message struct {
	ID   uint64
	Kind MessageKind
	Text string
}

// Surface is the rendering side of the roster view: the activities container,
// the activity selector, the signup form, and the message banner.
// Implementations must be safe to call from the banner timer goroutine.
type Surface interface {
	// ShowRoster replaces the activities container and the selector options.
	ShowRoster(m Model)
	// ShowRosterFailure replaces the activities container with a notice and
	// leaves the selector options as they were.
	ShowRosterFailure(notice string)
	// ResetSignupForm clears the signup form fields.
	ResetSignupForm()
	// ShowMessage displays m in the banner, replacing any current message.
	ShowMessage(m Message)
	// HideMessage is called once per shown message after the hide delay.
	HideMessage(m Message)
}
