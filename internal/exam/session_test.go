package exam

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sprtutor/examportal/internal/model"
)

func makeQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.AddQuestionRequest{
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % model.OptionCount,
		}.ToQuestion()
	}
	return questions
}

func startedSession(t *testing.T, n, secondsPerQuestion int, onComplete CompletionFunc) *Session {
	t.Helper()
	sess := NewSession(makeQuestions(n), secondsPerQuestion, onComplete)
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return sess
}

func TestNewSessionCountdownIsTotalExamTime(t *testing.T) {
	sess := NewSession(makeQuestions(5), 60, nil)
	if got := sess.Snapshot().TimeLeft; got != 300 {
		t.Errorf("TimeLeft = %d, want 300", got)
	}
}

func TestStartEmptyExam(t *testing.T) {
	sess := NewSession(nil, 60, nil)
	if err := sess.Start(); !errors.Is(err, ErrEmptyExam) {
		t.Errorf("Start on empty exam = %v, want ErrEmptyExam", err)
	}
}

func TestStartTwice(t *testing.T) {
	sess := startedSession(t, 1, 60, nil)
	if err := sess.Start(); err == nil {
		t.Error("second Start succeeded, want error")
	}
}

func TestNavigationClamps(t *testing.T) {
	tests := []struct {
		name string
		move func(s *Session) error
		want int
	}{
		{"next from first", func(s *Session) error { return s.Next() }, 1},
		{"previous at first clamps", func(s *Session) error { return s.Previous() }, 0},
		{"goto in range", func(s *Session) error { return s.GoTo(2) }, 2},
		{"goto past end clamps", func(s *Session) error { return s.GoTo(99) }, 2},
		{"goto negative clamps", func(s *Session) error { return s.GoTo(-5) }, 0},
		{"last", func(s *Session) error { return s.Last() }, 2},
		{"first", func(s *Session) error {
			if err := s.Last(); err != nil {
				return err
			}
			return s.First()
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := startedSession(t, 3, 60, nil)
			if err := tt.move(sess); err != nil {
				t.Fatalf("move: %v", err)
			}
			if got := sess.Snapshot().CurrentIndex; got != tt.want {
				t.Errorf("CurrentIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextAtLastStays(t *testing.T) {
	sess := startedSession(t, 2, 60, nil)
	if err := sess.Last(); err != nil {
		t.Fatal(err)
	}
	if err := sess.Next(); err != nil {
		t.Fatal(err)
	}
	if got := sess.Snapshot().CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}
}

func TestSelectAnswerOverwrites(t *testing.T) {
	sess := startedSession(t, 2, 60, nil)
	questions := sess.ExamQuestions()

	if err := sess.SelectAnswer(1); err != nil {
		t.Fatal(err)
	}
	if err := sess.SelectAnswer(3); err != nil {
		t.Fatal(err)
	}

	snap := sess.Snapshot()
	if got := snap.Answers[questions[0].ID]; got != 3 {
		t.Errorf("answer = %d, want 3 (re-answer must overwrite)", got)
	}
	if len(snap.Answers) != 1 {
		t.Errorf("answered count = %d, want 1", len(snap.Answers))
	}
}

func TestTickToZeroFiresCompletionOnce(t *testing.T) {
	fired := 0
	var got model.AnswerSet
	sess := startedSession(t, 2, 1, func(answers model.AnswerSet) {
		fired++
		got = answers
	})

	if err := sess.SelectAnswer(2); err != nil {
		t.Fatal(err)
	}

	// 2 questions × 1s: the second tick hits zero.
	if done := sess.Tick(); done {
		t.Fatal("first tick reported done")
	}
	if done := sess.Tick(); !done {
		t.Fatal("tick at zero did not report done")
	}

	snap := sess.Snapshot()
	if snap.Status != StatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", snap.Status)
	}
	if snap.TimeLeft != 0 {
		t.Errorf("TimeLeft = %d, want 0", snap.TimeLeft)
	}
	if fired != 1 {
		t.Fatalf("completion fired %d times, want 1", fired)
	}
	if len(got) != 1 {
		t.Errorf("frozen answers = %d entries, want 1", len(got))
	}

	// Further ticks stay inert.
	if done := sess.Tick(); !done {
		t.Error("tick after submission did not report done")
	}
	if fired != 1 {
		t.Errorf("completion fired %d times after extra tick, want 1", fired)
	}
}

func TestSubmitThenTickDoesNotDoubleFire(t *testing.T) {
	fired := 0
	sess := startedSession(t, 1, 60, func(model.AnswerSet) { fired++ })

	if err := sess.Submit(); err != nil {
		t.Fatal(err)
	}
	// A stale timer firing after submit must be a no-op.
	sess.Tick()
	sess.Tick()

	if fired != 1 {
		t.Errorf("completion fired %d times, want 1", fired)
	}
	if err := sess.Submit(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second Submit = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmittedSessionRejectsMutation(t *testing.T) {
	sess := startedSession(t, 2, 60, nil)
	if err := sess.Submit(); err != nil {
		t.Fatal(err)
	}

	if err := sess.SelectAnswer(0); !errors.Is(err, ErrNotActive) {
		t.Errorf("SelectAnswer = %v, want ErrNotActive", err)
	}
	if err := sess.Next(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Next = %v, want ErrNotActive", err)
	}
}

func TestFinalAnswersOnlyAfterSubmission(t *testing.T) {
	sess := startedSession(t, 2, 60, nil)

	if _, ok := sess.FinalAnswers(); ok {
		t.Fatal("FinalAnswers available while active")
	}

	if err := sess.SelectAnswer(1); err != nil {
		t.Fatal(err)
	}
	if err := sess.Submit(); err != nil {
		t.Fatal(err)
	}

	answers, ok := sess.FinalAnswers()
	if !ok {
		t.Fatal("FinalAnswers unavailable after submission")
	}
	if len(answers) != 1 {
		t.Errorf("frozen answers = %d entries, want 1", len(answers))
	}

	// Mutating the returned copy must not touch the frozen set.
	for id := range answers {
		answers[id] = 99
	}
	again, _ := sess.FinalAnswers()
	for _, v := range again {
		if v == 99 {
			t.Error("frozen answers leaked a mutable reference")
		}
	}
}

func TestQuestionsStripCorrectAnswer(t *testing.T) {
	sess := startedSession(t, 3, 60, nil)
	for _, q := range sess.Questions() {
		if len(q.Options) != model.OptionCount {
			t.Errorf("question %s has %d options", q.ID, len(q.Options))
		}
	}
}
