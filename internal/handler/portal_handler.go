package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/store"
	"github.com/sprtutor/examportal/internal/validator"
	"github.com/sprtutor/examportal/internal/view"
)

// PortalHandler drives the per-client screen state machine. A client is one
// browser tab; its state lives in memory only and a reload starts over.
type PortalHandler struct {
	registry    *view.Registry
	questions   *store.QuestionStore
	authService *service.AuthService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(registry *view.Registry, questions *store.QuestionStore, authService *service.AuthService) *PortalHandler {
	return &PortalHandler{
		registry:    registry,
		questions:   questions,
		authService: authService,
	}
}

// PortalEventRequest fires one transition event. Token is only read for
// login_succeeded, where it must carry a valid moderator JWT.
type PortalEventRequest struct {
	Event string `json:"event" binding:"required,oneof=choose_student choose_moderator login_succeeded start_exam exam_completed details_submitted back"`
	Token string `json:"token"`
}

// Enter godoc
// POST /api/v1/portal/enter
// Registers a new client. ?mode=student deep links straight to the exam
// intro, skipping the landing screen.
func (h *PortalHandler) Enter(c *gin.Context) {
	deepLink := c.Query("mode") == "student"
	id, initial := h.registry.Enter(deepLink)

	response.Success(c, http.StatusCreated, gin.H{
		"client_id": id,
		"view":      initial,
	})
}

// GetState godoc
// GET /api/v1/portal/:client_id
// Returns the client's current view.
func (h *PortalHandler) GetState(c *gin.Context) {
	id, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	st, ok := h.registry.Get(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"view":          st.Current,
		"authenticated": st.Authenticated,
	})
}

// Navigate godoc
// POST /api/v1/portal/:client_id/navigate
// Applies one transition event to the client's state machine.
func (h *PortalHandler) Navigate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req PortalEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event := view.Event(req.Event)

	// login_succeeded is only honored with a live moderator token, so a
	// client cannot walk itself into the dashboard view unauthenticated.
	if event == view.EventLoginSucceeded {
		claims, err := h.authService.ValidateToken(req.Token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if err := h.authService.ValidateSession(c.Request.Context(), claims.ID); err != nil {
			response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}
		h.registry.SetAuthenticated(id, true)
	}

	next, err := h.registry.Apply(id, event, h.questions.Count())
	if err != nil {
		switch {
		case errors.Is(err, view.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
		case errors.Is(err, view.ErrInvalidTransition):
			response.Fail(c, http.StatusConflict, response.ErrBadTransition)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": next})
}
