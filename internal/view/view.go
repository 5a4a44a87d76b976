// Package view implements the activity roster view: it fetches the roster,
// hands render-ready models to a Surface, submits signup and unregister
// actions, and refreshes after every successful mutation.
//
// The view is independent of any particular front end. internal/web renders
// it as HTML and cmd/rosterctl renders it as text.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkordes/activity-roster/internal/apiclient"
	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/roster"
)

// DefaultHideAfter is how long a banner message stays visible.
const DefaultHideAfter = 5 * time.Second

// API is the backend the view consumes. *apiclient.Client satisfies it.
type API interface {
	ListActivities(ctx context.Context) (domain.Roster, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Recorder receives outcome counts. *observability.Metrics satisfies it.
type Recorder interface {
	FetchCompleted(result string)
	ActionCompleted(action, outcome string)
}

// OutcomeKind classifies how a user action ended.
type OutcomeKind string

const (
	Success            OutcomeKind = "success"
	ApplicationFailure OutcomeKind = "application_failure"
	TransportFailure   OutcomeKind = "transport_failure"
)

// Outcome is the result of Signup or Unregister.
// Refreshed is true when a roster fetch followed the action.
type Outcome struct {
	Kind      OutcomeKind
	Message   string
	Refreshed bool
}

// Options tunes a View. The zero value is usable.
type Options struct {
	// HideAfter is the banner lifetime. Defaults to DefaultHideAfter.
	HideAfter time.Duration
	// AfterFunc schedules banner hides. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
	// Now stamps snapshots. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics Recorder
}

// action holds the fixed texts of one mutating action.
type action struct {
	name        string
	fallback    string // shown when the server gives no detail
	transport   string // shown when no response was obtained
	successText string // shown when the server gives no message
	resetsForm  bool
}

var (
	signupAction = action{
		name:        "signup",
		fallback:    "An error occurred",
		transport:   "Failed to sign up. Please try again.",
		successText: "Signed up successfully",
		resetsForm:  true,
	}
	unregisterAction = action{
		name:        "unregister",
		fallback:    "Unable to unregister",
		transport:   "Failed to unregister. Please try again.",
		successText: "Unregistered successfully",
	}
)

// View coordinates the backend, the snapshot store, and a surface.
// It is safe for concurrent use; every call names the surface it draws on.
type View struct {
	api   API
	store *Store
	opts  Options

	messages atomic.Uint64
}

// New constructs a View over api that commits fetched rosters to store.
func New(api API, store *Store, opts Options) *View {
	if opts.HideAfter <= 0 {
		opts.HideAfter = DefaultHideAfter
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &View{api: api, store: store, opts: opts}
}

// Store returns the snapshot store the view commits to.
func (v *View) Store() *Store {
	return v.store
}

// HideAfter returns the banner lifetime in effect.
func (v *View) HideAfter() time.Duration {
	return v.opts.HideAfter
}

// Refresh fetches the roster and draws it on s. On failure s shows the load
// failure notice and keeps its selector options. A result overtaken by a
// newer fetch is dropped without touching s.
func (v *View) Refresh(ctx context.Context, s Surface) error {
	ticket := v.store.Begin()

	r, err := v.api.ListActivities(ctx)
	if err != nil {
		if v.store.Superseded(ticket) {
			v.recordFetch("stale")
			v.opts.Logger.DebugContext(ctx, "dropping stale roster failure", "ticket", ticket, "error", err)
			return nil
		}
		v.recordFetch("failure")
		v.opts.Logger.ErrorContext(ctx, "failed to load activities", "error", err)
		s.ShowRosterFailure(roster.LoadFailedText)
		return fmt.Errorf("view.View.Refresh: %w", err)
	}

	snap, ok := v.store.Commit(ticket, r, v.opts.Now())
	if !ok {
		v.recordFetch("stale")
		v.opts.Logger.DebugContext(ctx, "dropping stale roster", "ticket", ticket)
		return nil
	}
	v.recordFetch("success")
	v.opts.Logger.DebugContext(ctx, "roster refreshed",
		"ticket", snap.Ticket,
		"activities", len(snap.Roster),
		"fetched_at", snap.FetchedAt,
	)
	s.ShowRoster(snap.Model)
	return nil
}

// Signup submits email for activity. On success the form is reset and the
// roster refreshed; on failure the banner shows why and nothing is refetched.
func (v *View) Signup(ctx context.Context, s Surface, activity, email string) Outcome {
	return v.act(ctx, s, signupAction, activity, email, v.api.Signup)
}

// Unregister removes email from activity with the same contract as Signup,
// except that there is no form to reset.
func (v *View) Unregister(ctx context.Context, s Surface, activity, email string) Outcome {
	return v.act(ctx, s, unregisterAction, activity, email, v.api.Unregister)
}

func (v *View) act(
	ctx context.Context,
	s Surface,
	a action,
	activity, email string,
	call func(ctx context.Context, activity, email string) (string, error),
) Outcome {
	log := v.opts.Logger.With("action", a.name, "activity", activity, "email", email)

	text, err := call(ctx, activity, email)
	if err == nil {
		if text == "" {
			text = a.successText
		}
		v.show(s, MessageSuccess, text)
		if a.resetsForm {
			s.ResetSignupForm()
		}
		if rerr := v.Refresh(ctx, s); rerr != nil {
			log.WarnContext(ctx, "refresh after action failed", "error", rerr)
		}
		v.recordAction(a.name, Success)
		log.InfoContext(ctx, "action succeeded")
		return Outcome{Kind: Success, Message: text, Refreshed: true}
	}

	if appErr, ok := apiclient.AsApplication(err); ok {
		text = appErr.Detail
		if text == "" {
			text = a.fallback
		}
		v.show(s, MessageError, text)
		v.recordAction(a.name, ApplicationFailure)
		log.WarnContext(ctx, "action rejected", "status", appErr.Status, "detail", appErr.Detail)
		return Outcome{Kind: ApplicationFailure, Message: text}
	}

	v.show(s, MessageError, a.transport)
	v.recordAction(a.name, TransportFailure)
	log.ErrorContext(ctx, "action failed", "error", err)
	return Outcome{Kind: TransportFailure, Message: a.transport}
}

// show displays a new message and schedules its hide. Earlier pending hides
// are left running.
func (v *View) show(s Surface, kind MessageKind, text string) {
	m := Message{ID: v.messages.Add(1), Kind: kind, Text: text}
	s.ShowMessage(m)
	v.opts.AfterFunc(v.opts.HideAfter, func() { s.HideMessage(m) })
}

func (v *View) recordFetch(result string) {
	if v.opts.Metrics != nil {
		v.opts.Metrics.FetchCompleted(result)
	}
}

func (v *View) recordAction(name string, kind OutcomeKind) {
	if v.opts.Metrics != nil {
		v.opts.Metrics.ActionCompleted(name, string(kind))
	}
}
