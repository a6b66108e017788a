package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/validator"
)

// QuestionHandler handles moderator question authoring endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	importService   *service.ImportService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, importService *service.ImportService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		importService:   importService,
	}
}

// ListQuestions godoc
// GET /api/v1/moderator/questions
// Returns the full question bank including correct answers.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions := h.questionService.List()

	response.Success(c, http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

// AddQuestion godoc
// POST /api/v1/moderator/questions
// Authors one question manually. All four options must be non-empty.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ReplaceQuestions godoc
// PUT /api/v1/moderator/questions
// Replaces the entire question bank in one write.
func (h *QuestionHandler) ReplaceQuestions(c *gin.Context) {
	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.questionService.ReplaceAll(c.Request.Context(), req.Questions)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

// DeleteQuestion godoc
// DELETE /api/v1/moderator/questions/:question_id
// Removes one question. Deleting an absent ID succeeds without effect.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Remove(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ImportQuestions godoc
// POST /api/v1/moderator/questions/import
// Parses raw text into questions via the AI service and appends the valid
// ones. Only one import may run at a time.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	var req model.ImportQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	imported, err := h.importService.Import(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportInProgress):
			response.Fail(c, http.StatusConflict, response.ErrImportBusy)
		case errors.Is(err, service.ErrImportFailed):
			response.Fail(c, http.StatusBadGateway, response.ErrImportFailed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"questions": imported,
		"count":     len(imported),
	})
}
