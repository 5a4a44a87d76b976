package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/activity-roster/internal/domain"
)

// MemoryActivityRepo keeps activities in process memory for local development
// and tests. Activity order is the order of the seed.
type MemoryActivityRepo struct {
	mu         sync.RWMutex
	activities domain.Roster
}

var _ ActivityRepo = (*MemoryActivityRepo)(nil)

// NewMemoryActivityRepo constructs a repository holding a copy of seed.
func NewMemoryActivityRepo(seed domain.Roster) *MemoryActivityRepo {
	return &MemoryActivityRepo{activities: copyRoster(seed)}
}

// List implements ActivityRepo.
func (r *MemoryActivityRepo) List(ctx context.Context) (domain.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyRoster(r.activities), nil
}

// GetByName implements ActivityRepo.
func (r *MemoryActivityRepo) GetByName(ctx context.Context, name string) (domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities.Find(name)
	if !ok {
		return domain.Activity{}, fmt.Errorf("repo.MemoryActivityRepo.GetByName: %w", domain.ErrNotFound)
	}
	a.Participants = slices.Clone(a.Participants)
	return a, nil
}

// AddParticipant implements ActivityRepo.
func (r *MemoryActivityRepo) AddParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("repo.MemoryActivityRepo.AddParticipant: %w", domain.ErrNotFound)
	}
	if r.activities[i].HasParticipant(email) {
		return fmt.Errorf("repo.MemoryActivityRepo.AddParticipant: %w", domain.ErrAlreadySignedUp)
	}
	r.activities[i].Participants = append(r.activities[i].Participants, email)
	return nil
}

// RemoveParticipant implements ActivityRepo.
func (r *MemoryActivityRepo) RemoveParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("repo.MemoryActivityRepo.RemoveParticipant: %w", domain.ErrNotFound)
	}
	j := slices.Index(r.activities[i].Participants, email)
	if j < 0 {
		return fmt.Errorf("repo.MemoryActivityRepo.RemoveParticipant: %w", domain.ErrNotSignedUp)
	}
	r.activities[i].Participants = slices.Delete(r.activities[i].Participants, j, j+1)
	return nil
}

// index returns the position of the named activity, or -1. Callers hold mu.
func (r *MemoryActivityRepo) index(name string) int {
	return slices.IndexFunc(r.activities, func(a domain.Activity) bool { return a.Name == name })
}

func copyRoster(in domain.Roster) domain.Roster {
	out := make(domain.Roster, len(in))
	for i, a := range in {
		a.Participants = slices.Clone(a.Participants)
		if a.Participants == nil {
			a.Participants = []string{}
		}
		out[i] = a
	}
	return out
}
