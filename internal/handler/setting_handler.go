package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/store"
	"github.com/sprtutor/examportal/internal/validator"
)

// SettingHandler handles moderator portal settings.
type SettingHandler struct {
	settings *store.SettingStore
	cfg      *config.Config
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settings *store.SettingStore, cfg *config.Config) *SettingHandler {
	return &SettingHandler{settings: settings, cfg: cfg}
}

// GetSettings godoc
// GET /api/v1/moderator/settings
// Returns the current portal settings and the allowed timer values.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"settings": model.PortalSettings{
			TimerPerQuestion: h.settings.TimerPerQuestion(),
		},
		"allowed_timer_values": config.AllowedTimerValues,
	})
}

// UpdateSettings godoc
// PUT /api/v1/moderator/settings
// Sets the seconds-per-question timer. Only whitelisted values are accepted;
// running sessions keep the timer they started with.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settings.SetTimerPerQuestion(c.Request.Context(), req.TimerPerQuestion); err != nil {
		if errors.Is(err, store.ErrInvalidTimerValue) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidTimer)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"settings": model.PortalSettings{
			TimerPerQuestion: h.settings.TimerPerQuestion(),
		},
	})
}

// GetShareLink godoc
// GET /api/v1/moderator/share-link
// Returns the student deep link: the portal base URL with mode=student, so
// shared recipients land straight on the exam intro.
func (h *SettingHandler) GetShareLink(c *gin.Context) {
	base, err := url.Parse(h.cfg.PortalBaseURL)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	q := base.Query()
	q.Set("mode", "student")
	base.RawQuery = q.Encode()

	response.Success(c, http.StatusOK, gin.H{"share_link": base.String()})
}
