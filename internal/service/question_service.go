package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/store"
)

// QuestionService handles question authoring. All mutations flush through
// the store before returning.
type QuestionService struct {
	questions *store.QuestionStore
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions *store.QuestionStore) *QuestionService {
	return &QuestionService{questions: questions}
}

// List returns the full question bank in authored order.
func (s *QuestionService) List() []model.Question {
	return s.questions.List()
}

// Add authors one question manually. Field validation (non-empty text and
// all four options) happens at the binding layer; no ID exists until the
// request passed it.
func (s *QuestionService) Add(ctx context.Context, req model.AddQuestionRequest) (*model.Question, error) {
	q := req.ToQuestion()
	if err := s.questions.AddMany(ctx, []model.Question{q}); err != nil {
		return nil, err
	}
	return &q, nil
}

// Remove deletes a question by ID. Absent IDs are a no-op.
func (s *QuestionService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.questions.Remove(ctx, id)
}

// ReplaceAll swaps the entire question bank.
func (s *QuestionService) ReplaceAll(ctx context.Context, reqs []model.AddQuestionRequest) ([]model.Question, error) {
	questions := make([]model.Question, len(reqs))
	for i, r := range reqs {
		questions[i] = r.ToQuestion()
	}
	if err := s.questions.ReplaceAll(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}
