// Package repo contains all storage access for the activities backend.
// ActivityRepo has a Postgres implementation (this file) and an in-memory
// one (memory.go). No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/activity-roster/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ActivityRepo defines the persistence operations for activities and their
// participants. The service layer depends on this interface.
type ActivityRepo interface {
	// List returns every activity in display order, each with its
	// participants in signup order.
	List(ctx context.Context) (domain.Roster, error)

	// GetByName returns one activity. Returns domain.ErrNotFound if absent.
	GetByName(ctx context.Context, name string) (domain.Activity, error)

	// AddParticipant appends email to the activity's participants.
	// Returns domain.ErrNotFound if the activity does not exist and
	// domain.ErrAlreadySignedUp if the email is already present.
	AddParticipant(ctx context.Context, name, email string) error

	// RemoveParticipant deletes email from the activity's participants.
	// Returns domain.ErrNotSignedUp if the email is not present.
	RemoveParticipant(ctx context.Context, name, email string) error
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

// selectActivities aggregates participants per activity in signup order.
// The FILTER drops the NULL row produced by the LEFT JOIN for empty activities.
const selectActivities = `
	SELECT a.name, a.description, a.schedule, a.max_participants,
	       COALESCE(array_agg(p.email ORDER BY p.seq) FILTER (WHERE p.email IS NOT NULL), '{}') AS participants
	FROM activities a
	LEFT JOIN participants p ON p.activity_id = a.id`

// List returns all activities ordered by position, then name.
func (r *pgActivityRepo) List(ctx context.Context) (domain.Roster, error) {
	const q = selectActivities + `
	GROUP BY a.id
	ORDER BY a.position, a.name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: %w", err)
	}
	defer rows.Close()

	out := domain.Roster{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.List: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: rows: %w", err)
	}
	return out, nil
}

// GetByName retrieves a single activity by its unique name.
func (r *pgActivityRepo) GetByName(ctx context.Context, name string) (domain.Activity, error) {
	const q = selectActivities + `
	WHERE a.name = @name
	GROUP BY a.id`

	a, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByName: %w", err)
	}
	return a, nil
}

// AddParticipant inserts a participant row. The primary key on
// (activity_id, email) turns a concurrent duplicate into ErrAlreadySignedUp.
func (r *pgActivityRepo) AddParticipant(ctx context.Context, name, email string) error {
	const q = `
		INSERT INTO participants (activity_id, email)
		SELECT id, @email FROM activities WHERE name = @name`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"name": name, "email": email})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("repo.ActivityRepo.AddParticipant: %w", domain.ErrAlreadySignedUp)
		}
		return fmt.Errorf("repo.ActivityRepo.AddParticipant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.AddParticipant: %w", domain.ErrNotFound)
	}
	return nil
}

// RemoveParticipant deletes a participant row.
func (r *pgActivityRepo) RemoveParticipant(ctx context.Context, name, email string) error {
	const q = `
		DELETE FROM participants p
		USING activities a
		WHERE p.activity_id = a.id AND a.name = @name AND p.email = @email`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"name": name, "email": email})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.RemoveParticipant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.RemoveParticipant: %w", domain.ErrNotSignedUp)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanActivity maps one aggregated row into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	var a domain.Activity
	err := s.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &a.Participants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	return a, nil
}
