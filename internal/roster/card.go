package roster

import (
	"fmt"

	"github.com/pkordes/activity-roster/internal/domain"
)

// Fixed texts shown by every surface.
const (
	NoParticipantsText = "No participants yet. Be the first!"
	LoadFailedText     = "Failed to load activities. Please try again later."
)

// Participant is one rendered entry of a card's participant list.
type Participant struct {
	Email    string
	Name     string
	Initials string
}

// Card is the render-ready shape of one activity.
type Card struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []Participant
}

// Availability is the "N spots left" line. Negative counts are shown as is.
func (c Card) Availability() string {
	return fmt.Sprintf("%d spots left", c.SpotsLeft)
}

// HasParticipants reports whether the card renders a participant list or the
// empty placeholder.
func (c Card) HasParticipants() bool {
	return len(c.Participants) > 0
}

// SpotsLeft is capacity minus current participants. It is not clamped:
// an over-capacity activity yields a negative number.
func SpotsLeft(a domain.Activity) int {
	return a.MaxParticipants - len(a.Participants)
}

// NewCard derives the card for one activity.
func NewCard(a domain.Activity) Card {
	c := Card{
		Name:        a.Name,
		Description: a.Description,
		Schedule:    a.Schedule,
		SpotsLeft:   SpotsLeft(a),
	}
	if len(a.Participants) > 0 {
		c.Participants = make([]Participant, len(a.Participants))
		for i, email := range a.Participants {
			c.Participants[i] = Participant{
				Email:    email,
				Name:     FormatName(email),
				Initials: Initials(email),
			}
		}
	}
	return c
}

// Cards derives one card per activity, in roster order.
// Always returns a non-nil slice so callers can safely range over it.
func Cards(r domain.Roster) []Card {
	out := make([]Card, len(r))
	for i, a := range r {
		out[i] = NewCard(a)
	}
	return out
}
