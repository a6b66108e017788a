package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	sweepInterval = time.Hour
	stateMaxAge   = 12 * time.Hour
)

// State is one browser's position in the screen machine. Nothing here is
// persisted: a reload starts over, by design.
type State struct {
	Current       View
	Authenticated bool
	lastSeen      time.Time
}

// Registry tracks per-client view state in memory.
type Registry struct {
	mu     sync.Mutex
	log    zerolog.Logger
	states map[uuid.UUID]*State
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		log:    log.With().Str("component", "view_registry").Logger(),
		states: make(map[uuid.UUID]*State),
	}
}

// Start sweeps abandoned states until ctx is cancelled.
func (r *Registry) Start(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// Enter registers a new client at its initial view.
func (r *Registry) Enter(deepLinkStudent bool) (uuid.UUID, View) {
	id := uuid.New()
	initial := InitialView(deepLinkStudent)

	r.mu.Lock()
	r.states[id] = &State{Current: initial, lastSeen: time.Now()}
	r.mu.Unlock()

	return id, initial
}

// Get returns a copy of the client's state.
func (r *Registry) Get(id uuid.UUID) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Apply runs one transition for the client. questionCount feeds the
// start-exam guard; the authenticated flag comes from the stored state.
func (r *Registry) Apply(id uuid.UUID, event Event, questionCount int) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[id]
	if !ok {
		return "", ErrInvalidTransition
	}

	next, err := Transition(st.Current, event, Guards{
		QuestionCount: questionCount,
		Authenticated: st.Authenticated,
	})
	if err != nil {
		return st.Current, err
	}

	st.Current = next
	st.lastSeen = time.Now()
	return next, nil
}

// SetAuthenticated marks the client as a logged-in moderator for the rest
// of its in-memory lifetime.
func (r *Registry) SetAuthenticated(id uuid.UUID, authed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[id]; ok {
		st.Authenticated = authed
		st.lastSeen = time.Now()
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-stateMaxAge)

	r.mu.Lock()
	removed := 0
	for id, st := range r.states {
		if st.lastSeen.Before(cutoff) {
			delete(r.states, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.log.Debug().Int("count", removed).Msg("Swept abandoned view states")
	}
}
