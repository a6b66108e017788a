package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/model"
)

func scoringQuestions() []model.Question {
	return []model.Question{
		{ID: uuid.New(), Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 0},
		{ID: uuid.New(), Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 2},
		{ID: uuid.New(), Text: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 3},
	}
}

func TestScore(t *testing.T) {
	questions := scoringQuestions()

	tests := []struct {
		name    string
		answers func() model.AnswerSet
		want    int
	}{
		{"all correct", func() model.AnswerSet {
			a := model.AnswerSet{}
			for _, q := range questions {
				a[q.ID] = q.CorrectAnswer
			}
			return a
		}, 3},
		{"all wrong", func() model.AnswerSet {
			a := model.AnswerSet{}
			for _, q := range questions {
				a[q.ID] = (q.CorrectAnswer + 1) % model.OptionCount
			}
			return a
		}, 0},
		{"skipped never count", func() model.AnswerSet {
			return model.AnswerSet{}
		}, 0},
		{"mixed with skip", func() model.AnswerSet {
			// Q1 correct, Q2 skipped, Q3 wrong.
			return model.AnswerSet{
				questions[0].ID: 0,
				questions[2].ID: 1,
			}
		}, 1},
		{"unknown question id ignored", func() model.AnswerSet {
			return model.AnswerSet{uuid.New(): 0}
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := Score(questions, tt.answers())
			if score != tt.want {
				t.Errorf("score = %d, want %d", score, tt.want)
			}
			if total != len(questions) {
				t.Errorf("total = %d, want %d", total, len(questions))
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	questions := scoringQuestions()
	answers := model.AnswerSet{questions[1].ID: 2}

	first, _ := Score(questions, answers)
	second, _ := Score(questions, answers)
	if first != second {
		t.Errorf("repeated scoring differs: %d then %d", first, second)
	}
}

func TestBuildResult(t *testing.T) {
	questions := scoringQuestions()
	answers := model.AnswerSet{questions[0].ID: 0}

	details := model.StudentDetailsRequest{
		Name:         "Amina Khatun",
		School:       "Model High School",
		RollNumber:   "42",
		Village:      "Shyampur",
		MobileNumber: "01712345678",
	}

	result, err := BuildResult(questions, answers, details)
	if err != nil {
		t.Fatalf("BuildResult: %v", err)
	}

	if result.ID == uuid.Nil {
		t.Error("result ID not assigned")
	}
	if result.Score != 1 || result.TotalQuestions != 3 {
		t.Errorf("score = %d/%d, want 1/3", result.Score, result.TotalQuestions)
	}
	if result.Name != details.Name || result.MobileNumber != details.MobileNumber {
		t.Error("identity fields not carried over")
	}
	if result.Date.IsZero() {
		t.Error("result date not stamped")
	}

	// The record holds its own copy of the answers.
	answers[questions[0].ID] = 3
	if result.Answers[questions[0].ID] != 0 {
		t.Error("result answers alias the caller's map")
	}
}

func TestBuildResultValidation(t *testing.T) {
	questions := scoringQuestions()

	tests := []struct {
		name    string
		details model.StudentDetailsRequest
		wantErr error
	}{
		{"missing name", model.StudentDetailsRequest{MobileNumber: "0171"}, ErrMissingName},
		{"blank name", model.StudentDetailsRequest{Name: "   ", MobileNumber: "0171"}, ErrMissingName},
		{"missing mobile", model.StudentDetailsRequest{Name: "Amina"}, ErrMissingMobile},
		{"blank mobile", model.StudentDetailsRequest{Name: "Amina", MobileNumber: " "}, ErrMissingMobile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildResult(questions, model.AnswerSet{}, tt.details); !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildResult = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
