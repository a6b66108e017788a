package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/exam"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/validator"
)

// ExamHandler handles the student exam session endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// AnswerRequest selects an option for the current question.
type AnswerRequest struct {
	OptionIndex *int `json:"option_index" binding:"required,min=0,max=3"`
}

// NavigateRequest moves the session cursor. Index is only read for op=goto.
type NavigateRequest struct {
	Op    string `json:"op" binding:"required,oneof=next previous first last goto"`
	Index int    `json:"index" binding:"min=0"`
}

// StartSession godoc
// POST /api/v1/exam/sessions
// Snapshots the question bank into a new countdown session and starts the
// clock immediately.
func (h *ExamHandler) StartSession(c *gin.Context) {
	sess, err := h.examService.StartSession()
	if err != nil {
		if errors.Is(err, exam.ErrEmptyExam) {
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	snap := sess.Snapshot()
	response.Success(c, http.StatusCreated, gin.H{
		"session":   snap,
		"questions": sess.Questions(),
	})
}

// GetSession godoc
// GET /api/v1/exam/sessions/:session_id
// Returns the live session state and its answer-stripped questions.
func (h *ExamHandler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session":   sess.Snapshot(),
		"questions": sess.Questions(),
	})
}

// SelectAnswer godoc
// POST /api/v1/exam/sessions/:session_id/answer
// Records the option for the question at the current cursor. Re-answering
// overwrites; there is no un-answer.
func (h *ExamHandler) SelectAnswer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.SelectAnswer(*req.OptionIndex); err != nil {
		h.failTransition(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// Navigate godoc
// POST /api/v1/exam/sessions/:session_id/navigate
// Moves the cursor. Out-of-range moves clamp rather than fail.
func (h *ExamHandler) Navigate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var err error
	switch req.Op {
	case "next":
		err = sess.Next()
	case "previous":
		err = sess.Previous()
	case "first":
		err = sess.First()
	case "last":
		err = sess.Last()
	case "goto":
		err = sess.GoTo(req.Index)
	}
	if err != nil {
		h.failTransition(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// SubmitSession godoc
// POST /api/v1/exam/sessions/:session_id/submit
// Freezes the answers and stops the countdown. Idempotent in effect: a
// second submit fails without changing anything.
func (h *ExamHandler) SubmitSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	if err := sess.Submit(); err != nil {
		h.failTransition(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess.Snapshot()})
}

// FinalizeResult godoc
// POST /api/v1/exam/sessions/:session_id/result
// Takes the post-exam details form, scores the frozen answers, and persists
// the result record. The session is released afterwards.
func (h *ExamHandler) FinalizeResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StudentDetailsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.FinalizeResult(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, service.ErrSessionNotSubmitted):
			response.Fail(c, http.StatusConflict, response.ErrSessionNotDone)
		case errors.Is(err, service.ErrMissingName), errors.Is(err, service.ErrMissingMobile):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"result": result})
}

// ListResults godoc
// GET /api/v1/moderator/results?page=&per_page=
// Returns persisted results, oldest first, paginated.
func (h *ExamHandler) ListResults(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	results := h.examService.ListResults()
	totalItems := len(results)
	totalPages := (totalItems + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > totalItems {
		start = totalItems
	}
	end := start + perPage
	if end > totalItems {
		end = totalItems
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{
		"results": results[start:end],
	}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	})
}

// GetResult godoc
// GET /api/v1/moderator/results/:result_id
// Returns one persisted result including the per-question answer map.
func (h *ExamHandler) GetResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("result_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, ok := h.examService.GetResult(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// session resolves the :session_id param to a live session, writing the
// error response itself when it cannot.
func (h *ExamHandler) session(c *gin.Context) (*exam.Session, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	sess, err := h.examService.GetSession(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return nil, false
	}
	return sess, true
}

// failTransition maps session state-machine errors onto the API taxonomy.
func (h *ExamHandler) failTransition(c *gin.Context, err error) {
	switch {
	case errors.Is(err, exam.ErrAlreadySubmitted), errors.Is(err, exam.ErrNotActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
	case errors.Is(err, exam.ErrEmptyExam):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
