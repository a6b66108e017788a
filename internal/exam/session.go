package exam

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/model"
)

// Status enumerates the session lifecycle: Ready → Active → Submitted.
// Submitted is terminal.
type Status string

const (
	StatusReady     Status = "READY"
	StatusActive    Status = "ACTIVE"
	StatusSubmitted Status = "SUBMITTED"
)

// Session errors.
var (
	ErrEmptyExam        = errors.New("cannot start an exam with no questions")
	ErrNotActive        = errors.New("exam session is not active")
	ErrAlreadySubmitted = errors.New("exam session already submitted")
)

// CompletionFunc receives the frozen answer set on the single
// Active → Submitted transition.
type CompletionFunc func(answers model.AnswerSet)

// Session drives one student through the fixed question list under a shared
// countdown. All entry points are guarded by the status so that a timer tick
// racing a manual submit can never double-fire the completion callback.
type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	questions  []model.Question
	current    int
	answers    model.AnswerSet
	timeLeft   int
	status     Status
	onComplete CompletionFunc
	final      model.AnswerSet
}

// NewSession creates a Ready session over the given question list.
// The countdown is the total exam time: len(questions) × secondsPerQuestion.
func NewSession(questions []model.Question, secondsPerQuestion int, onComplete CompletionFunc) *Session {
	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	return &Session{
		id:         uuid.New(),
		questions:  qs,
		answers:    make(model.AnswerSet),
		timeLeft:   len(qs) * secondsPerQuestion,
		status:     StatusReady,
		onComplete: onComplete,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Start performs the only Ready → Active transition. An empty question list
// is a caller bug (the router guards it upstream) but still fails loudly.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return ErrEmptyExam
	}
	if s.status != StatusReady {
		return ErrAlreadySubmitted
	}
	s.current = 0
	s.status = StatusActive
	return nil
}

// SelectAnswer records optionIndex for the current question, overwriting any
// prior choice. Option bounds are trusted to the caller — options are
// rendered from the question's own option count.
func (s *Session) SelectAnswer(optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.answers[s.questions[s.current].ID] = optionIndex
	return nil
}

// GoTo moves the current-question pointer, clamped to the valid range.
// Navigation never wraps and never mutates answers.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.current = clamp(index, 0, len(s.questions)-1)
	return nil
}

// Next advances to the following question.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.current = clamp(s.current+1, 0, len(s.questions)-1)
	return nil
}

// Previous steps back one question.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.current = clamp(s.current-1, 0, len(s.questions)-1)
	return nil
}

// First jumps to the first question.
func (s *Session) First() error {
	return s.GoTo(0)
}

// Last jumps to the final question.
func (s *Session) Last() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrNotActive
	}
	s.current = len(s.questions) - 1
	return nil
}

// Tick decrements the countdown by one second. At zero the session
// transitions to Submitted and fires the completion callback exactly once.
// Returns true when the session is no longer Active, so the scheduling
// goroutine knows to stop.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.status != StatusActive {
		s.mu.Unlock()
		return true
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		s.mu.Unlock()
		return false
	}
	s.timeLeft = 0
	cb, answers := s.finalizeLocked()
	s.mu.Unlock()

	if cb != nil {
		cb(answers)
	}
	return true
}

// Submit performs an explicit early Active → Submitted transition.
// Once Submitted, further Tick, SelectAnswer, and Submit calls are no-ops.
func (s *Session) Submit() error {
	s.mu.Lock()
	switch s.status {
	case StatusReady:
		s.mu.Unlock()
		return ErrNotActive
	case StatusSubmitted:
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}
	cb, answers := s.finalizeLocked()
	s.mu.Unlock()

	if cb != nil {
		cb(answers)
	}
	return nil
}

// finalizeLocked freezes the answer set and clears the callback so it can
// fire at most once. Caller holds the mutex; the callback must be invoked
// after unlocking.
func (s *Session) finalizeLocked() (CompletionFunc, model.AnswerSet) {
	s.status = StatusSubmitted
	s.final = s.answers.Clone()
	cb := s.onComplete
	s.onComplete = nil
	return cb, s.final
}

// Snapshot is a point-in-time view of the session for state endpoints.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Status        Status          `json:"status"`
	CurrentIndex  int             `json:"current_index"`
	TimeLeft      int             `json:"time_left"`
	QuestionCount int             `json:"question_count"`
	Answers       model.AnswerSet `json:"answers"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:            s.id,
		Status:        s.status,
		CurrentIndex:  s.current,
		TimeLeft:      s.timeLeft,
		QuestionCount: len(s.questions),
		Answers:       s.answers.Clone(),
	}
}

// Questions returns the session's question list stripped of correct answers.
func (s *Session) Questions() []model.QuestionForStudent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.QuestionForStudent, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.ForStudent()
	}
	return out
}

// ExamQuestions returns the full question records captured at start time,
// used by the scoring engine after submission.
func (s *Session) ExamQuestions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// FinalAnswers returns the answer set frozen at submission. The second
// return is false while the session is still Ready or Active.
func (s *Session) FinalAnswers() (model.AnswerSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusSubmitted {
		return nil, false
	}
	return s.final.Clone(), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
