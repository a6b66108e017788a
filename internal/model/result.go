package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerSet maps question IDs to the selected option index for one exam
// attempt. A skipped question is simply absent — there is no sentinel.
type AnswerSet map[uuid.UUID]int

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// StudentResult is the immutable record of one completed exam attempt.
// Answers reference question IDs as they existed at scoring time; later
// question deletions do not invalidate historical results.
type StudentResult struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	School         string    `json:"school"`
	RollNumber     string    `json:"roll_number"`
	Village        string    `json:"village"`
	MobileNumber   string    `json:"mobile_number"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Date           time.Time `json:"date"`
	Answers        AnswerSet `json:"answers"`
}

// StudentDetailsRequest carries the identity fields collected by the
// post-exam form. Name and mobile number are mandatory.
type StudentDetailsRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=120"`
	School       string `json:"school" binding:"max=200"`
	RollNumber   string `json:"roll_number" binding:"max=50"`
	Village      string `json:"village" binding:"max=120"`
	MobileNumber string `json:"mobile_number" binding:"required,min=1,max=20"`
}
