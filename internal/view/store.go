package view

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/roster"
)

// Ticket orders roster fetches by the time they were issued.
type Ticket uint64

// Snapshot is an immutable fetched roster together with its derived model.
// It is replaced as a whole, never edited.
type Snapshot struct {
	Ticket    Ticket
	FetchedAt time.Time
	Roster    domain.Roster
	Model     Model
}

// Store holds the latest roster snapshot.
//
// With discardStale set, a fetch result is dropped when a fetch issued later
// has already been committed, so overlapping refreshes cannot roll the
// roster back. Without it the last result to arrive wins.
type Store struct {
	discardStale bool

	mu      sync.Mutex
	issued  Ticket
	applied Ticket

	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty Store.
func NewStore(discardStale bool) *Store {
	return &Store{discardStale: discardStale}
}

// Begin issues the ticket for a new fetch.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Superseded reports whether the result of fetch t should be dropped.
func (s *Store) Superseded(t Ticket) bool {
	if !s.discardStale {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return t < s.applied
}

// Commit installs r as the current snapshot unless t is superseded.
// The roster is copied, so the caller may keep using its slice.
func (s *Store) Commit(t Ticket, r domain.Roster, at time.Time) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardStale && t < s.applied {
		return Snapshot{}, false
	}

	own := cloneRoster(r)
	snap := &Snapshot{
		Ticket:    t,
		FetchedAt: at,
		Roster:    own,
		Model:     Model{Cards: roster.Cards(own), Options: own.Names()},
	}
	s.applied = t
	s.current.Store(snap)
	return *snap, true
}

// Current returns the latest committed snapshot, if any fetch has succeeded.
func (s *Store) Current() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

func cloneRoster(r domain.Roster) domain.Roster {
	out := make(domain.Roster, len(r))
	for i, a := range r {
		a.Participants = slices.Clone(a.Participants)
		out[i] = a
	}
	return out
}
