package model

import (
	"github.com/google/uuid"
)

// OptionCount is the fixed number of options every question carries.
const OptionCount = 4

// Question represents a single multiple-choice question.
// Text may be non-Latin script (the portal serves English and Bengali).
type Question struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	ImageURL      string    `json:"image_url,omitempty"`
}

// QuestionForStudent is a question stripped of the correct answer,
// the only shape ever sent into an exam session.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	ImageURL string    `json:"image_url,omitempty"`
}

// ForStudent strips the correct answer from a question.
func (q Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		ImageURL: q.ImageURL,
	}
}

// AddQuestionRequest is the payload for manually authoring a question.
// Every option must be non-empty; an empty option rejects the whole request
// before any ID is generated.
type AddQuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectAnswer int      `json:"correct_answer" binding:"min=0,max=3"`
	ImageURL      string   `json:"image_url" binding:"omitempty,url"`
}

// ToQuestion converts the request into a Question with a fresh ID.
func (r AddQuestionRequest) ToQuestion() Question {
	return Question{
		ID:            uuid.New(),
		Text:          r.Text,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		ImageURL:      r.ImageURL,
	}
}

// ReplaceQuestionsRequest is the payload for bulk replacing the question list.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}

// ImportQuestionsRequest is the payload for the AI text-to-question import.
type ImportQuestionsRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}
