// Package service holds the business rules of the activities backend.
// Services validate inputs and orchestrate repo calls; no SQL lives here.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/repo"
)

// ActivityService implements signup and unregister on top of an ActivityRepo.
type ActivityService struct {
	repo repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by r.
func NewActivityService(r repo.ActivityRepo) *ActivityService {
	return &ActivityService{repo: r}
}

// List returns every activity in display order.
func (s *ActivityService) List(ctx context.Context) (domain.Roster, error) {
	roster, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	return roster, nil
}

// Signup adds email to the named activity. There is no capacity check:
// an activity may end up over its max_participants.
func (s *ActivityService) Signup(ctx context.Context, name, email string) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("service.ActivityService.Signup: %w", err)
	}

	activity, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("service.ActivityService.Signup: %w", err)
	}
	if activity.HasParticipant(email) {
		return fmt.Errorf("service.ActivityService.Signup: %w", domain.ErrAlreadySignedUp)
	}

	// The repo re-checks membership, so a concurrent duplicate still fails.
	if err := s.repo.AddParticipant(ctx, name, email); err != nil {
		return fmt.Errorf("service.ActivityService.Signup: %w", err)
	}
	return nil
}

// Unregister removes email from the named activity.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("service.ActivityService.Unregister: %w", err)
	}

	activity, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("service.ActivityService.Unregister: %w", err)
	}
	if !activity.HasParticipant(email) {
		return fmt.Errorf("service.ActivityService.Unregister: %w", domain.ErrNotSignedUp)
	}

	if err := s.repo.RemoveParticipant(ctx, name, email); err != nil {
		return fmt.Errorf("service.ActivityService.Unregister: %w", err)
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return nil
}
