package view_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-roster/internal/apiclient"
	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/roster"
	"github.com/pkordes/activity-roster/internal/view"
)

// mockAPI is a test double for view.API.
// Set only the method fields your test needs.
type mockAPI struct {
	list       func(ctx context.Context) (domain.Roster, error)
	signup     func(ctx context.Context, activity, email string) (string, error)
	unregister func(ctx context.Context, activity, email string) (string, error)

	listCalls atomic.Int32
}

func (m *mockAPI) ListActivities(ctx context.Context) (domain.Roster, error) {
	m.listCalls.Add(1)
	return m.list(ctx)
}
func (m *mockAPI) Signup(ctx context.Context, activity, email string) (string, error) {
	return m.signup(ctx, activity, email)
}
func (m *mockAPI) Unregister(ctx context.Context, activity, email string) (string, error) {
	return m.unregister(ctx, activity, email)
}

// compile-time checks: the fakes and the real client satisfy the interfaces.
var (
	_ view.API     = (*mockAPI)(nil)
	_ view.API     = (*apiclient.Client)(nil)
	_ view.Surface = (*recordingSurface)(nil)
)

// recordingSurface remembers everything the view drew on it.
type recordingSurface struct {
	mu          sync.Mutex
	model       *view.Model
	options     []string
	failure     string
	rosterCalls int
	resets      int
	shown       []view.Message
	hidden      []view.Message
}

func (s *recordingSurface) ShowRoster(m view.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = &m
	s.options = m.Options
	s.failure = ""
	s.rosterCalls++
}
func (s *recordingSurface) ShowRosterFailure(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = nil
	s.failure = notice
}
func (s *recordingSurface) ResetSignupForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}
func (s *recordingSurface) ShowMessage(m view.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, m)
}
func (s *recordingSurface) HideMessage(m view.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = append(s.hidden, m)
}

// manualTimers collects scheduled banner hides so tests can fire them.
type manualTimers struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualTimers) fire(i int) {
	m.mu.Lock()
	f := m.funcs[i]
	m.mu.Unlock()
	f()
}

// mockRecorder counts metric calls.
type mockRecorder struct {
	mu      sync.Mutex
	fetches map[string]int
	actions map[string]int
}

func (r *mockRecorder) FetchCompleted(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetches == nil {
		r.fetches = map[string]int{}
	}
	r.fetches[result]++
}
func (r *mockRecorder) ActionCompleted(action, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions == nil {
		r.actions = map[string]int{}
	}
	r.actions[action+"/"+outcome]++
}

// ---- helpers ---------------------------------------------------------------

func rosterFixture() domain.Roster {
	return domain.Roster{
		{Name: "Chess Club", Description: "Strategy", Schedule: "Fridays", MaxParticipants: 10,
			Participants: []string{"jane.doe@example.com", "bob@example.com", "kim@example.com"}},
		{Name: "Art Club", Description: "Paint", Schedule: "Thursdays", MaxParticipants: 5},
	}
}

func okList() func(context.Context) (domain.Roster, error) {
	return func(context.Context) (domain.Roster, error) { return rosterFixture(), nil }
}

func newView(api view.API, timers *manualTimers, rec view.Recorder) *view.View {
	return view.New(api, view.NewStore(true), view.Options{
		AfterFunc: timers.AfterFunc,
		Metrics:   rec,
	})
}

// ---- Refresh ---------------------------------------------------------------

func TestRefresh_showsRosterAndOptions(t *testing.T) {
	api := &mockAPI{list: okList()}
	s := &recordingSurface{}
	v := newView(api, &manualTimers{}, nil)

	require.NoError(t, v.Refresh(context.Background(), s))

	require.NotNil(t, s.model)
	assert.Equal(t, []string{"Chess Club", "Art Club"}, s.options)
	require.Len(t, s.model.Cards, 2)
	assert.Equal(t, "7 spots left", s.model.Cards[0].Availability())
	assert.Equal(t, "JD", s.model.Cards[0].Participants[0].Initials)
	assert.False(t, s.model.Cards[1].HasParticipants())

	snap, ok := v.Store().Current()
	require.True(t, ok)
	assert.Equal(t, "Chess Club", snap.Roster[0].Name)
}

// TestRefresh_failureKeepsOptions verifies that a failed fetch shows the load
// failure notice and leaves the previously rendered selector options intact.
func TestRefresh_failureKeepsOptions(t *testing.T) {
	fail := false
	api := &mockAPI{list: func(context.Context) (domain.Roster, error) {
		if fail {
			return nil, &apiclient.TransportError{Op: "test", Err: errors.New("connection refused")}
		}
		return rosterFixture(), nil
	}}
	s := &recordingSurface{}
	rec := &mockRecorder{}
	v := newView(api, &manualTimers{}, rec)

	require.NoError(t, v.Refresh(context.Background(), s))
	fail = true
	err := v.Refresh(context.Background(), s)

	require.Error(t, err)
	assert.True(t, apiclient.IsTransport(err))
	assert.Equal(t, roster.LoadFailedText, s.failure)
	assert.Equal(t, []string{"Chess Club", "Art Club"}, s.options)
	assert.Equal(t, 1, rec.fetches["success"])
	assert.Equal(t, 1, rec.fetches["failure"])
}

// TestRefresh_dropsStaleResult verifies that when two fetches overlap and the
// older one resolves last, its result is discarded.
func TestRefresh_dropsStaleResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var n atomic.Int32
	api := &mockAPI{list: func(context.Context) (domain.Roster, error) {
		if n.Add(1) == 1 {
			close(started)
			<-release
			return domain.Roster{{Name: "Old"}}, nil
		}
		return domain.Roster{{Name: "New"}}, nil
	}}
	rec := &mockRecorder{}
	v := newView(api, &manualTimers{}, rec)
	slow, fast := &recordingSurface{}, &recordingSurface{}

	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background(), slow) }()
	<-started

	require.NoError(t, v.Refresh(context.Background(), fast))
	close(release)
	require.NoError(t, <-done)

	snap, ok := v.Store().Current()
	require.True(t, ok)
	assert.Equal(t, "New", snap.Roster[0].Name)
	assert.Equal(t, 1, fast.rosterCalls)
	assert.Equal(t, 0, slow.rosterCalls, "stale result must not be drawn")
	assert.Equal(t, 1, rec.fetches["stale"])
}

// TestRefresh_lastResponseWinsWhenNotDiscarding verifies the unguarded mode.
func TestRefresh_lastResponseWinsWhenNotDiscarding(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var n atomic.Int32
	api := &mockAPI{list: func(context.Context) (domain.Roster, error) {
		if n.Add(1) == 1 {
			close(started)
			<-release
			return domain.Roster{{Name: "Old"}}, nil
		}
		return domain.Roster{{Name: "New"}}, nil
	}}
	v := view.New(api, view.NewStore(false), view.Options{AfterFunc: (&manualTimers{}).AfterFunc})

	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background(), &recordingSurface{}) }()
	<-started

	require.NoError(t, v.Refresh(context.Background(), &recordingSurface{}))
	close(release)
	require.NoError(t, <-done)

	snap, _ := v.Store().Current()
	assert.Equal(t, "Old", snap.Roster[0].Name)
}

// ---- Signup ----------------------------------------------------------------

// TestSignup_success verifies that a successful signup shows the server
// message, clears the form, and issues exactly one roster fetch.
func TestSignup_success(t *testing.T) {
	api := &mockAPI{
		list: okList(),
		signup: func(_ context.Context, activity, email string) (string, error) {
			assert.Equal(t, "Chess Club", activity)
			assert.Equal(t, "new@example.com", email)
			return "Signed up new@example.com for Chess Club", nil
		},
	}
	timers := &manualTimers{}
	rec := &mockRecorder{}
	s := &recordingSurface{}
	v := newView(api, timers, rec)

	out := v.Signup(context.Background(), s, "Chess Club", "new@example.com")

	assert.Equal(t, view.Outcome{Kind: view.Success, Message: "Signed up new@example.com for Chess Club", Refreshed: true}, out)
	assert.EqualValues(t, 1, api.listCalls.Load())
	assert.Equal(t, 1, s.resets)
	require.Len(t, s.shown, 1)
	assert.Equal(t, view.MessageSuccess, s.shown[0].Kind)
	assert.Equal(t, 1, s.rosterCalls)
	assert.Equal(t, 1, rec.actions["signup/success"])
}

func TestSignup_successWithoutMessageUsesFallback(t *testing.T) {
	api := &mockAPI{
		list:   okList(),
		signup: func(context.Context, string, string) (string, error) { return "", nil },
	}
	s := &recordingSurface{}

	out := newView(api, &manualTimers{}, nil).Signup(context.Background(), s, "Chess Club", "a@b.c")

	assert.Equal(t, "Signed up successfully", out.Message)
}

// TestSignup_applicationFailure verifies that a rejected signup shows the
// server detail verbatim and does not refresh or clear the form.
func TestSignup_applicationFailure(t *testing.T) {
	api := &mockAPI{
		list: okList(),
		signup: func(context.Context, string, string) (string, error) {
			return "", &apiclient.ApplicationError{Op: "test", Status: http.StatusBadRequest, Detail: "Already signed up"}
		},
	}
	rec := &mockRecorder{}
	s := &recordingSurface{}

	out := newView(api, &manualTimers{}, rec).Signup(context.Background(), s, "Chess Club", "bob@example.com")

	assert.Equal(t, view.Outcome{Kind: view.ApplicationFailure, Message: "Already signed up"}, out)
	require.Len(t, s.shown, 1)
	assert.Equal(t, "Already signed up", s.shown[0].Text)
	assert.Equal(t, view.MessageError, s.shown[0].Kind)
	assert.EqualValues(t, 0, api.listCalls.Load())
	assert.Zero(t, s.resets)
	assert.Equal(t, 1, rec.actions["signup/application_failure"])
}

func TestSignup_applicationFailureWithoutDetail(t *testing.T) {
	api := &mockAPI{signup: func(context.Context, string, string) (string, error) {
		return "", &apiclient.ApplicationError{Op: "test", Status: http.StatusInternalServerError}
	}}
	s := &recordingSurface{}

	out := newView(api, &manualTimers{}, nil).Signup(context.Background(), s, "Chess Club", "a@b.c")

	assert.Equal(t, "An error occurred", out.Message)
}

func TestSignup_transportFailure(t *testing.T) {
	api := &mockAPI{signup: func(context.Context, string, string) (string, error) {
		return "", &apiclient.TransportError{Op: "test", Err: context.DeadlineExceeded}
	}}
	rec := &mockRecorder{}
	s := &recordingSurface{}

	out := newView(api, &manualTimers{}, rec).Signup(context.Background(), s, "Chess Club", "a@b.c")

	assert.Equal(t, view.Outcome{Kind: view.TransportFailure, Message: "Failed to sign up. Please try again."}, out)
	assert.EqualValues(t, 0, api.listCalls.Load())
	assert.Equal(t, 1, rec.actions["signup/transport_failure"])
}

// ---- Unregister ------------------------------------------------------------

func TestUnregister_success(t *testing.T) {
	api := &mockAPI{
		list: okList(),
		unregister: func(_ context.Context, activity, email string) (string, error) {
			return "Unregistered " + email + " from " + activity, nil
		},
	}
	s := &recordingSurface{}

	out := newView(api, &manualTimers{}, nil).Unregister(context.Background(), s, "Chess Club", "bob@example.com")

	assert.Equal(t, view.Success, out.Kind)
	assert.Equal(t, "Unregistered bob@example.com from Chess Club", out.Message)
	assert.True(t, out.Refreshed)
	assert.EqualValues(t, 1, api.listCalls.Load())
	assert.Zero(t, s.resets, "unregister has no form to reset")
}

func TestUnregister_failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want view.Outcome
	}{
		{
			name: "detail",
			err:  &apiclient.ApplicationError{Status: http.StatusBadRequest, Detail: "Student is not signed up for this activity"},
			want: view.Outcome{Kind: view.ApplicationFailure, Message: "Student is not signed up for this activity"},
		},
		{
			name: "no detail",
			err:  &apiclient.ApplicationError{Status: http.StatusNotFound},
			want: view.Outcome{Kind: view.ApplicationFailure, Message: "Unable to unregister"},
		},
		{
			name: "transport",
			err:  &apiclient.TransportError{Err: errors.New("reset by peer")},
			want: view.Outcome{Kind: view.TransportFailure, Message: "Failed to unregister. Please try again."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{unregister: func(context.Context, string, string) (string, error) { return "", tt.err }}

			out := newView(api, &manualTimers{}, nil).Unregister(context.Background(), &recordingSurface{}, "Chess Club", "x@y.z")

			assert.Equal(t, tt.want, out)
			assert.EqualValues(t, 0, api.listCalls.Load())
		})
	}
}

// ---- banner ----------------------------------------------------------------

// TestBanner_eachMessageHidesItself verifies that every message schedules its
// own hide after the default delay and that a newer message does not cancel
// the pending hide of an older one.
func TestBanner_eachMessageHidesItself(t *testing.T) {
	api := &mockAPI{signup: func(context.Context, string, string) (string, error) {
		return "", &apiclient.ApplicationError{Status: http.StatusBadRequest, Detail: "nope"}
	}}
	timers := &manualTimers{}
	s := &recordingSurface{}
	v := newView(api, timers, nil)

	v.Signup(context.Background(), s, "A", "a@x")
	v.Signup(context.Background(), s, "B", "b@x")

	require.Len(t, s.shown, 2)
	require.Len(t, timers.funcs, 2)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, timers.delays)
	assert.NotEqual(t, s.shown[0].ID, s.shown[1].ID)

	timers.fire(0)
	require.Len(t, s.hidden, 1)
	assert.Equal(t, s.shown[0].ID, s.hidden[0].ID)

	timers.fire(1)
	require.Len(t, s.hidden, 2)
	assert.Equal(t, s.shown[1].ID, s.hidden[1].ID)
}

func TestBanner_customDelay(t *testing.T) {
	api := &mockAPI{signup: func(context.Context, string, string) (string, error) {
		return "", &apiclient.TransportError{Err: errors.New("x")}
	}}
	timers := &manualTimers{}
	v := view.New(api, view.NewStore(true), view.Options{HideAfter: time.Second, AfterFunc: timers.AfterFunc})

	v.Signup(context.Background(), &recordingSurface{}, "A", "a@x")

	assert.Equal(t, []time.Duration{time.Second}, timers.delays)
	assert.Equal(t, time.Second, v.HideAfter())
}

func TestRefresh_logsFetchTime(t *testing.T) {
	var buf bytes.Buffer
	fetchedAt := time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC)
	api := &mockAPI{list: func(context.Context) (domain.Roster, error) { return domain.SeedActivities(), nil }}
	v := view.New(api, view.NewStore(true), view.Options{
		Now:       func() time.Time { return fetchedAt },
		Logger:    slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		AfterFunc: func(time.Duration, func()) {},
	})

	require.NoError(t, v.Refresh(context.Background(), &recordingSurface{}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "roster refreshed", entry["msg"])
	assert.Equal(t, "2025-09-01T15:30:00Z", entry["fetched_at"])
	assert.EqualValues(t, 9, entry["activities"])
	assert.EqualValues(t, 1, entry["ticket"])
}
