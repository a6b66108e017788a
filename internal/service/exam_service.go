package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/exam"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/store"
)

// Exam flow errors.
var (
	ErrSessionNotFound     = errors.New("exam session not found")
	ErrSessionNotSubmitted = errors.New("exam session not submitted yet")
)

// ExamService orchestrates the student exam flow: starting sessions over
// the current question bank, finalizing results, and queueing the report
// notification.
type ExamService struct {
	questions *store.QuestionStore
	settings  *store.SettingStore
	results   *store.ResultStore
	manager   *exam.Manager
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	questions *store.QuestionStore,
	settings *store.SettingStore,
	results *store.ResultStore,
	manager *exam.Manager,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		questions: questions,
		settings:  settings,
		results:   results,
		manager:   manager,
		rdb:       rdb,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// StartSession snapshots the question bank into a new countdown session.
// Rejects loudly when the bank is empty — the view router guards this
// upstream, but the contract holds here too.
func (s *ExamService) StartSession() (*exam.Session, error) {
	questions := s.questions.List()
	if len(questions) == 0 {
		return nil, exam.ErrEmptyExam
	}

	return s.manager.StartSession(questions, s.settings.TimerPerQuestion(),
		func(sessionID uuid.UUID, answers model.AnswerSet) {
			s.log.Info().
				Str("session_id", sessionID.String()).
				Int("answered", len(answers)).
				Msg("Exam session submitted")
		})
}

// GetSession returns the live session with the given ID.
func (s *ExamService) GetSession(id uuid.UUID) (*exam.Session, error) {
	sess, ok := s.manager.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// resultNotice is the payload pushed onto the notification queue for the
// report worker.
type resultNotice struct {
	ResultID     string `json:"result_id"`
	Name         string `json:"name"`
	RollNumber   string `json:"roll_number"`
	MobileNumber string `json:"mobile_number"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
}

// FinalizeResult scores a submitted session against the questions captured
// at start time, appends the immutable result record, and queues the report
// notification. The session is released afterwards.
func (s *ExamService) FinalizeResult(ctx context.Context, sessionID uuid.UUID, details model.StudentDetailsRequest) (*model.StudentResult, error) {
	sess, ok := s.manager.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	answers, done := sess.FinalAnswers()
	if !done {
		return nil, ErrSessionNotSubmitted
	}

	result, err := BuildResult(sess.ExamQuestions(), answers, details)
	if err != nil {
		return nil, err
	}

	if err := s.results.Append(ctx, *result); err != nil {
		return nil, err
	}

	// Best effort: a lost notification never blocks the result.
	notice, _ := json.Marshal(resultNotice{
		ResultID:     result.ID.String(),
		Name:         result.Name,
		RollNumber:   result.RollNumber,
		MobileNumber: result.MobileNumber,
		Score:        result.Score,
		Total:        result.TotalQuestions,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.ResultNotifyQueue, notice).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to queue result notification")
	}

	s.manager.Remove(sessionID)

	return result, nil
}

// ListResults returns all persisted results, oldest first.
func (s *ExamService) ListResults() []model.StudentResult {
	return s.results.List()
}

// GetResult returns one persisted result by ID.
func (s *ExamService) GetResult(id uuid.UUID) (*model.StudentResult, bool) {
	return s.results.Get(id)
}
