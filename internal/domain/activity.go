// Package domain contains the core data types for the activity roster.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler, apiclient, view).
package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Activity is a named event with a schedule, a capacity, and the emails of
// everyone signed up for it. Participants are kept in signup order.
type Activity struct {
	Name            string   `json:"-"` // the roster key, never part of the value object
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// HasParticipant reports whether email is already on the participant list.
// Comparison is exact; the backend never normalizes emails.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Roster is the full set of activities in server order.
// On the wire it is a JSON object keyed by activity name, and the key order
// carries the display order.
type Roster []Activity

// Names returns the activity names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, a := range r {
		names[i] = a.Name
	}
	return names
}

// Find returns the activity with the given name. The result shares its
// Participants slice with r.
func (r Roster) Find(name string) (Activity, bool) {
	for _, a := range r {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// MarshalJSON encodes the roster as an object whose keys keep roster order.
// encoding/json sorts map keys, so the object is written by hand.
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
