package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/handler"
	"github.com/sprtutor/examportal/internal/middleware"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Portal   *handler.PortalHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Setting  *handler.SettingHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/moderator/login", handlers.Auth.ModeratorLogin)
		auth.POST("/moderator/logout", middleware.RequireModeratorJWT(authService), handlers.Auth.ModeratorLogout)
	}

	// ─── 2. Portal Group (Public, per-client view state) ───────────────
	portal := router.Group("/api/v1/portal")
	{
		portal.POST("/enter", handlers.Portal.Enter)
		portal.GET("/:client_id", handlers.Portal.GetState)
		portal.POST("/:client_id/navigate", handlers.Portal.Navigate)
	}

	// ─── 3. Exam Group (Public, students have no accounts) ─────────────
	exam := router.Group("/api/v1/exam")
	{
		exam.POST("/sessions", handlers.Exam.StartSession)
		exam.GET("/sessions/:session_id", handlers.Exam.GetSession)
		exam.POST("/sessions/:session_id/answer", handlers.Exam.SelectAnswer)
		exam.POST("/sessions/:session_id/navigate", handlers.Exam.Navigate)
		exam.POST("/sessions/:session_id/submit", handlers.Exam.SubmitSession)
		exam.POST("/sessions/:session_id/result", handlers.Exam.FinalizeResult)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/exam/sessions/:session_id/stream", handlers.WS.ExamStream)
	}

	// ─── 5. Moderator Group (JWT) ──────────────────────────────────────
	moderatorAPI := router.Group("/api/v1/moderator")
	moderatorAPI.Use(middleware.RequireModeratorJWT(authService))
	{
		moderatorAPI.GET("/questions", handlers.Question.ListQuestions)
		moderatorAPI.POST("/questions", handlers.Question.AddQuestion)
		moderatorAPI.PUT("/questions", handlers.Question.ReplaceQuestions)
		moderatorAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)
		moderatorAPI.POST("/questions/import", handlers.Question.ImportQuestions)

		moderatorAPI.GET("/results", handlers.Exam.ListResults)
		moderatorAPI.GET("/results/:result_id", handlers.Exam.GetResult)

		moderatorAPI.GET("/settings", handlers.Setting.GetSettings)
		moderatorAPI.PUT("/settings", handlers.Setting.UpdateSettings)
		moderatorAPI.GET("/share-link", handlers.Setting.GetShareLink)
	}

	return router
}
