package exam

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/model"
)

const (
	// reapInterval is how often finished sessions are swept from memory.
	reapInterval = time.Minute
	// reapAfter is how long a submitted session lingers so the student can
	// still file the post-exam details form.
	reapAfter = 30 * time.Minute
)

// managed pairs a session with the cancel func of its ticker goroutine.
type managed struct {
	session    *Session
	cancel     context.CancelFunc
	finishedAt time.Time
}

// Manager owns all live exam sessions. Each Active session gets exactly one
// long-lived one-second ticker goroutine, cancelled exactly once on any
// Active → Submitted transition (or on shutdown). This is the single most
// important resource-lifetime rule in the portal: a stale timer must never
// fire into a discarded session.
type Manager struct {
	mu       sync.Mutex
	log      zerolog.Logger
	baseCtx  context.Context
	sessions map[uuid.UUID]*managed
}

// NewManager creates a session manager. Session tickers derive from
// baseCtx, so cancelling it on shutdown stops every countdown — including
// sessions started before the reaper goroutine is scheduled.
func NewManager(baseCtx context.Context, log zerolog.Logger) *Manager {
	return &Manager{
		log:      log.With().Str("component", "exam_manager").Logger(),
		baseCtx:  baseCtx,
		sessions: make(map[uuid.UUID]*managed),
	}
}

// Start runs the reaper loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	m.log.Info().Msg("Exam session manager started")

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Exam session manager stopping")
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

// StartSession creates and starts a session over the given questions and
// spawns its countdown goroutine. onComplete fires exactly once with the
// frozen answer set, whether by clock expiry or explicit submit.
func (m *Manager) StartSession(questions []model.Question, secondsPerQuestion int, onComplete func(sessionID uuid.UUID, answers model.AnswerSet)) (*Session, error) {
	var sess *Session
	tickerCtx, cancel := context.WithCancel(m.baseCtx)

	// The wrapped callback both notifies the caller and cancels the ticker,
	// closing the stale-interval gap on the same transition that freezes
	// the answers.
	sess = NewSession(questions, secondsPerQuestion, func(answers model.AnswerSet) {
		cancel()
		m.markFinished(sess.ID())
		if onComplete != nil {
			onComplete(sess.ID(), answers)
		}
	})

	if err := sess.Start(); err != nil {
		cancel()
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = &managed{session: sess, cancel: cancel}
	m.mu.Unlock()

	go m.runTicker(tickerCtx, sess)

	m.log.Info().
		Str("session_id", sess.ID().String()).
		Int("questions", len(questions)).
		Int("seconds_per_question", secondsPerQuestion).
		Msg("Exam session started")

	return sess, nil
}

// runTicker drives Tick once per wall-clock second until the session leaves
// Active or the context is cancelled.
func (m *Manager) runTicker(ctx context.Context, sess *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if sess.Tick() {
				return
			}
		}
	}
}

// Get returns the live session with the given ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// Remove drops a session, cancelling its ticker if still running.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		entry.cancel()
	}
}

// markFinished stamps the submission time for the reaper.
func (m *Manager) markFinished(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.sessions[id]; ok {
		entry.finishedAt = time.Now()
	}
}

// reap removes submitted sessions whose details-form grace period expired.
func (m *Manager) reap() {
	cutoff := time.Now().Add(-reapAfter)

	m.mu.Lock()
	var stale []*managed
	for id, entry := range m.sessions {
		if !entry.finishedAt.IsZero() && entry.finishedAt.Before(cutoff) {
			delete(m.sessions, id)
			stale = append(stale, entry)
		}
	}
	m.mu.Unlock()

	for _, entry := range stale {
		entry.cancel()
	}
	if len(stale) > 0 {
		m.log.Debug().Int("count", len(stale)).Msg("Reaped finished exam sessions")
	}
}
