package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/model"
)

// Result construction errors. Mandatory identity fields are validated before
// any record is created — a rejected form mutates nothing.
var (
	ErrMissingName   = errors.New("student name is compulsory")
	ErrMissingMobile = errors.New("mobile number is compulsory")
)

// Score counts correct answers. Strict equality against the question's
// correct option; an absent key (skipped question) never matches.
// Pure and deterministic — safe to call repeatedly on the same inputs.
func Score(questions []model.Question, answers model.AnswerSet) (score, total int) {
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score, len(questions)
}

// BuildResult scores the frozen answer set and stamps the identity fields
// from the post-exam form into an immutable StudentResult.
func BuildResult(questions []model.Question, answers model.AnswerSet, details model.StudentDetailsRequest) (*model.StudentResult, error) {
	if strings.TrimSpace(details.Name) == "" {
		return nil, ErrMissingName
	}
	if strings.TrimSpace(details.MobileNumber) == "" {
		return nil, ErrMissingMobile
	}

	score, total := Score(questions, answers)

	return &model.StudentResult{
		ID:             uuid.New(),
		Name:           details.Name,
		School:         details.School,
		RollNumber:     details.RollNumber,
		Village:        details.Village,
		MobileNumber:   details.MobileNumber,
		Score:          score,
		TotalQuestions: total,
		Date:           time.Now().UTC(),
		Answers:        answers.Clone(),
	}, nil
}
