package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sprtutor/examportal/internal/middleware"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/validator"
)

// AuthHandler handles the moderator gate endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ModeratorLoginRequest is the login payload: a single shared secret.
type ModeratorLoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// ModeratorLogin godoc
// POST /api/v1/auth/moderator/login
// Verifies the shared secret and issues a moderator JWT.
func (h *AuthHandler) ModeratorLogin(c *gin.Context) {
	var req ModeratorLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Secret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNoSecretConfigured) {
			// Both collapse to invalid credentials so a missing server-side
			// secret is not observable from outside.
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
	})
}

// ModeratorLogout godoc
// POST /api/v1/auth/moderator/logout
// Invalidates the current token's session ahead of its expiry.
func (h *AuthHandler) ModeratorLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.ID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
